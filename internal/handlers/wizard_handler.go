package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"log"
	"math/rand"
	"net/http"
	"sync"

	"precioustime/internal/breakdown"
	"precioustime/internal/helpline"
	"precioustime/internal/lifeexp"
	"precioustime/internal/models"
	"precioustime/internal/refdata"
	"precioustime/internal/render"
	"precioustime/internal/wizard"
)

// WizardHandler serves the multi-step form and the results flow
type WizardHandler struct {
	sessions  *SessionStore
	client    *lifeexp.Client
	directory *helpline.Directory
	data      *refdata.Datasets
	templates *template.Template

	mu        sync.Mutex
	countries []models.CountryEntry // last list fetched from the gateway
}

// NewWizardHandler creates the wizard handler
func NewWizardHandler(sessions *SessionStore, client *lifeexp.Client, directory *helpline.Directory, data *refdata.Datasets, templates *template.Template) *WizardHandler {
	return &WizardHandler{
		sessions:  sessions,
		client:    client,
		directory: directory,
		data:      data,
		templates: templates,
	}
}

// stepTemplates maps each wizard step to its page template
var stepTemplates = map[models.Step]string{
	models.StepIntro:   "intro.tmpl",
	models.StepAge:     "age.tmpl",
	models.StepSex:     "sex.tmpl",
	models.StepCountry: "country.tmpl",
	models.StepWorry:   "worry.tmpl",
	models.StepResults: "results.tmpl",
	models.StepHelp:    "help.tmpl",
}

// Show displays the current step of the visitor's wizard
func (h *WizardHandler) Show(w http.ResponseWriter, r *http.Request) {
	id := SessionFromContext(r.Context())
	sess := h.sessions.snapshot(id)

	h.renderStep(w, r, id, sess, "")
}

// Advance handles the current step's submit action. The browser's Enter key
// submits the same form the button does, so both paths arrive here; while
// the help overlay is open the form is not on the page and posts that still
// arrive are swallowed by the state machine.
func (h *WizardHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id := SessionFromContext(r.Context())
	sess := h.sessions.snapshot(id)

	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid form data", "", err)
		return
	}

	countryCode := r.FormValue("country")
	form := map[string]string{
		"age":         r.FormValue("age"),
		"sex":         r.FormValue("sex"),
		"country":     countryCode,
		"countryName": h.countryTitle(countryCode),
		"worryHours":  r.FormValue("worryHours"),
	}

	next, err := wizard.Advance(sess.state, form)
	if err != nil {
		var verr wizard.ValidationError
		if errors.As(err, &verr) {
			// Blocked transition: stay on the step and tell the user.
			h.renderStep(w, r, id, sess, verr.Message)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Something went wrong", "Wizard transition failed", err)
		return
	}

	if next.Step == models.StepResults {
		h.runResults(w, r, id, next)
		return
	}

	h.sessions.update(id, next)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Restart clears the visitor's answers and returns to the first question
func (h *WizardHandler) Restart(w http.ResponseWriter, r *http.Request) {
	id := SessionFromContext(r.Context())
	h.sessions.update(id, wizard.Restart(h.sessions.snapshot(id).state))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ShowHelp opens the help overlay, optionally filtered by ?q=
func (h *WizardHandler) ShowHelp(w http.ResponseWriter, r *http.Request) {
	id := SessionFromContext(r.Context())
	sess := h.sessions.snapshot(id)

	state := wizard.OpenHelp(sess.state)
	h.sessions.update(id, state)
	sess.state = state

	h.renderStep(w, r, id, sess, "")
}

// CloseHelp closes the overlay and returns to the step it was opened from
func (h *WizardHandler) CloseHelp(w http.ResponseWriter, r *http.Request) {
	id := SessionFromContext(r.Context())
	h.sessions.update(id, wizard.CloseHelp(h.sessions.snapshot(id).state))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// runResults is the terminal flow: clear prior output, fetch the life
// expectancy, compute the breakdown, render, then fetch the quote. A quote
// failure only changes the quote area, never the rendered results.
func (h *WizardHandler) runResults(w http.ResponseWriter, r *http.Request, id string, state models.WizardState) {
	h.sessions.update(id, state)

	if !h.sessions.beginFetch(id) {
		// A fetch for this session is already running; show what is there.
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	defer h.sessions.endFetch(id)

	// Clear prior results and quote before fetching.
	h.sessions.setResults(id, "", "")

	res := h.client.LifeExpectancy(r.Context(), state.CountryCode, state.Sex)
	if !res.OK() {
		h.finishResults(w, r, id, render.ErrorMessage(res.Message), "")
		return
	}
	if res.Years <= 0 {
		msg := fmt.Sprintf("Could not retrieve valid life expectancy data for your selection (%s, %s).",
			state.CountryName, models.SexLabel(state.Sex))
		h.finishResults(w, r, id, render.ErrorMessage(msg), "")
		return
	}

	b := breakdown.Compute(res.Years, state.Age, state.WorryHours)
	resultsHTML, err := render.Results(b, state.CountryName, state.Sex)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to render results", err)
		return
	}

	// Independent quote step, run only after the results rendered.
	var quoteHTML template.HTML
	if quote, err := h.client.RandomQuote(r.Context()); err != nil {
		log.Printf("Quote fetch failed: %v", err)
		quoteHTML = template.HTML("<p>" + render.QuoteUnavailableText + "</p>")
	} else {
		quoteHTML = render.QuoteLine(quote)
	}

	h.finishResults(w, r, id, resultsHTML, quoteHTML)
}

// finishResults stores and shows the final results page
func (h *WizardHandler) finishResults(w http.ResponseWriter, r *http.Request, id string, results, quote template.HTML) {
	h.sessions.setResults(id, results, quote)

	sess := h.sessions.snapshot(id)
	h.renderStep(w, r, id, sess, "")
}

// renderStep renders the page template for the session's current step
func (h *WizardHandler) renderStep(w http.ResponseWriter, r *http.Request, id string, sess session, errMsg string) {
	state := sess.state
	name, ok := stepTemplates[state.Step]
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "", fmt.Errorf("no template for step %s", state.Step))
		return
	}

	data := map[string]interface{}{
		"Title": "Precious Time",
		"State": state,
		"Error": errMsg,
	}

	switch state.Step {
	case models.StepIntro:
		if len(h.data.Quotes) > 0 {
			data["Quote"] = h.data.Quotes[rand.Intn(len(h.data.Quotes))]
		}
	case models.StepCountry:
		countries, err := h.loadCountries(r)
		if err != nil {
			log.Printf("Country list unavailable: %v", err)
			data["CountriesError"] = "The country list is unavailable right now. Please try again."
		}
		data["Countries"] = countries
	case models.StepResults:
		data["Results"] = sess.results
		data["QuoteLine"] = sess.quote
	case models.StepHelp:
		query := r.URL.Query().Get("q")
		data["Query"] = query
		data["Regions"] = h.directory.Regions()
		data["Buckets"] = h.directory.Filter(query)
	}

	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// loadCountries fetches the selector list from the gateway and remembers it
// for display-name lookups on submit.
func (h *WizardHandler) loadCountries(r *http.Request) ([]models.CountryEntry, error) {
	countries, err := h.client.Countries(r.Context())
	if err != nil {
		// Keep whatever list we had; the selector stays populated.
		h.mu.Lock()
		cached := h.countries
		h.mu.Unlock()
		if len(cached) > 0 {
			return cached, nil
		}
		return nil, err
	}

	h.mu.Lock()
	h.countries = countries
	h.mu.Unlock()
	return countries, nil
}

// respondWithError logs the cause and sends a plain error reply. userMsg is
// what the visitor sees; logMsg, when set, is the log-side description.
func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if logMsg == "" {
		logMsg = userMsg
	}
	if err != nil {
		log.Printf("%s: %v", logMsg, err)
	}

	http.Error(w, userMsg, status)
}

// countryTitle resolves a code to its display title, via the last fetched
// list first and the static table second. Unknown codes display as the code.
func (h *WizardHandler) countryTitle(code string) string {
	h.mu.Lock()
	for _, c := range h.countries {
		if c.Code == code {
			h.mu.Unlock()
			return c.Title
		}
	}
	h.mu.Unlock()

	if title, ok := h.data.CountryTitle(code); ok {
		return title
	}
	return code
}
