package inspection

import (
	"context"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/a-h/templ"

	jsonpkg "inspecciones/webapp/internal/pkg/json"
)

type PageData struct {
	Inspection Inspection
	Recovered  bool
	Submitted  bool
	SavedAt    time.Time
	DraftBytes int
	NearLimit  bool
}

func InspectionPage(d PageData) templ.Component {
	return Layout("Inspección #"+strconv.Itoa(d.Inspection.ID), inspectionMain(d))
}

func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="es"><head><meta charset="utf-8"><title>`+templ.EscapeString(title)+`</title></head><body>`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

func inspectionMain(d PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		id := strconv.Itoa(d.Inspection.ID)
		if _, err := io.WriteString(w, `<main id="inspection" data-inspection-id="`+id+`" data-draft-url="/api/inspections/`+id+`/draft">`); err != nil {
			return err
		}

		parts := []templ.Component{InspectionHeader(d.Inspection)}
		if d.Submitted {
			parts = append(parts, SubmittedNotice())
		}
		if d.Recovered {
			parts = append(parts, RecoveredNotice(d.SavedAt))
		}
		if d.NearLimit {
			parts = append(parts, SizeWarning(d.DraftBytes))
		}
		parts = append(parts, InspectionForm(d.Inspection), draftScript())

		for _, c := range parts {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main>`)
		return err
	})
}

func InspectionHeader(insp Inspection) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		out := `<header><h1>` + templ.EscapeString(headline(insp)) + `</h1>`
		if insp.ScheduledFor != "" {
			out += `<p class="scheduled">` + templ.EscapeString(insp.ScheduledFor) + `</p>`
		}
		if insp.Inspector != "" {
			out += `<p class="inspector">` + templ.EscapeString(insp.Inspector) + `</p>`
		}
		_, err := io.WriteString(w, out+`</header>`)
		return err
	})
}

// InspectionForm posts form-encoded fields back to the submit endpoint. The
// hidden "state" field carries the record's JSON so values not shown as
// inputs survive a plain browser submit.
func InspectionForm(insp Inspection) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		state, err := jsonpkg.MarshalString(insp.State())
		if err != nil {
			return err
		}

		open := `<form id="inspection-form" method="post" action="` + submitPath(insp.ID) + `">` +
			`<input type="hidden" name="` + fieldState + `" value="` + templ.EscapeString(state) + `">` +
			`<table class="items"><thead><tr><th>Ítem</th><th>Valor</th></tr></thead><tbody>`
		if _, err := io.WriteString(w, open); err != nil {
			return err
		}
		for _, key := range sortedKeys(insp.Items) {
			if err := ItemRow(key, insp.Items[key]).Render(ctx, w); err != nil {
				return err
			}
		}

		rest := `</tbody></table>` +
			`<p class="evidences">Evidencias: ` + strconv.Itoa(len(insp.Evidences)) + `</p>` +
			`<label for="notes">Observaciones</label>` +
			`<textarea id="notes" name="` + fieldNotes + `">` + templ.EscapeString(insp.Notes) + `</textarea>` +
			`<button type="submit">Enviar inspección</button></form>`
		_, err = io.WriteString(w, rest)
		return err
	})
}

func ItemRow(key string, value any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		k := templ.EscapeString(key)
		_, err := io.WriteString(w, `<tr data-item-id="`+k+`"><td>`+k+`</td>`+
			`<td><input type="text" name="`+templ.EscapeString(fieldItemPrefix+key)+`" value="`+templ.EscapeString(displayValue(value))+`"></td></tr>`)
		return err
	})
}

func RecoveredNotice(savedAt time.Time) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		msg := "Se recuperaron datos no enviados de esta inspección."
		if !savedAt.IsZero() {
			msg += " Guardado: " + savedAt.Local().Format("02/01/2006 15:04") + "."
		}
		_, err := io.WriteString(w, `<div class="notice notice-info" role="status" id="draft-recovered">`+templ.EscapeString(msg)+`</div>`)
		return err
	})
}

func SubmittedNotice() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div class="notice notice-success" role="status" id="submitted">Inspección enviada.</div>`)
		return err
	})
}

func SizeWarning(size int) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		msg := "El borrador local ocupa " + strconv.Itoa(size) + " bytes y está cerca del límite de almacenamiento."
		_, err := io.WriteString(w, `<div class="notice notice-warning" role="alert" id="draft-size">`+templ.EscapeString(msg)+`</div>`)
		return err
	})
}

// draftScript saves the form to the draft endpoint after edits, debounced.
// Inputs left at their rendered value keep the structured value from "state".
const draftScriptSource = `(function () {
  var main = document.getElementById("inspection");
  var form = document.getElementById("inspection-form");
  if (!main || !form || !window.fetch) return;
  var url = main.getAttribute("data-draft-url");
  var timer = null;
  function collect() {
    var state = {};
    try { state = JSON.parse(form.elements.state.value) || {}; } catch (e) { state = {}; }
    state.items = state.items || {};
    for (var i = 0; i < form.elements.length; i++) {
      var f = form.elements[i];
      if (f.name && f.name.indexOf("item.") === 0 && f.value !== f.defaultValue) {
        state.items[f.name.slice(5)] = f.value;
      }
    }
    if (form.elements.notes) state.notes = form.elements.notes.value;
    return state;
  }
  function save() {
    timer = null;
    fetch(url, {
      method: "PUT",
      credentials: "same-origin",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify(collect())
    }).catch(function () {});
  }
  function schedule() {
    if (timer) clearTimeout(timer);
    timer = setTimeout(save, 400);
  }
  form.addEventListener("input", schedule);
  form.addEventListener("change", schedule);
})();`

func draftScript() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<script id="draft-autosave">`+draftScriptSource+`</script>`)
		return err
	})
}

func submitPath(id int) string {
	return "/api/inspections/" + strconv.Itoa(id) + "/submit"
}

func headline(insp Inspection) string {
	title := "Inspección #" + strconv.Itoa(insp.ID)
	if insp.Facility != "" {
		title += " · " + insp.Facility
	}
	if insp.Area != "" {
		title += " / " + insp.Area
	}
	return title
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func displayValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	}
	s, err := jsonpkg.MarshalString(v)
	if err != nil {
		return ""
	}
	return s
}
