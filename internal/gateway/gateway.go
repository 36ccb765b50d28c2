// Package gateway implements the thin proxy in front of the public health
// APIs. The frontend never talks to the WHO or quote APIs directly; it calls
// these three endpoints, which forward upstream and substitute cached or
// static fallback data when the upstream cannot be reached.
package gateway

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"precioustime/internal/cache"
	"precioustime/internal/models"
	"precioustime/internal/refdata"
	"precioustime/internal/upstream"
)

// FallbackHeader marks a response served from the static fallback tables
const FallbackHeader = "X-Fallback-Data"

// CachedHeader marks a response served from the observation cache
const CachedHeader = "X-Cached-Data"

// Gateway serves the three proxy endpoints
type Gateway struct {
	who    *upstream.WHOClient
	quotes *upstream.QuoteClient
	data   *refdata.Datasets
	store  *cache.Store // nil when caching is disabled
}

// New creates a gateway. store may be nil to disable the observation cache.
func New(who *upstream.WHOClient, quotes *upstream.QuoteClient, data *refdata.Datasets, store *cache.Store) *Gateway {
	return &Gateway{who: who, quotes: quotes, data: data, store: store}
}

// envelope mirrors the WHO OData response shape for fallback values
type envelope struct {
	Value []observation `json:"value"`
}

type observation struct {
	NumericValue float64 `json:"NumericValue"`
	SpatialDim   string  `json:"SpatialDim"`
	Dim1         string  `json:"Dim1"`
	TimeDim      int     `json:"TimeDim"`
}

// Countries handles GET /api/countries. Whatever goes wrong upstream, the
// caller gets HTTP 200 and a usable list: first the live WHO body, then a
// cached copy, then the static fallback table with the fallback marker. The
// dropdown staying populated beats surfacing a transient outage.
func (g *Gateway) Countries(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	body, err := g.who.FetchCountries(r.Context())
	if err == nil {
		if g.store != nil {
			if cacheErr := g.store.PutDocument(cache.CountryListDocument, body); cacheErr != nil {
				log.Printf("Failed to cache country list: %v", cacheErr)
			}
		}
		writeRawJSON(w, http.StatusOK, body)
		return
	}

	log.Printf("Country list fetch failed, serving fallback: %v", err)

	if g.store != nil {
		cached, ok, cacheErr := g.store.GetDocument(cache.CountryListDocument)
		if cacheErr != nil {
			log.Printf("Country list cache read failed: %v", cacheErr)
		} else if ok {
			w.Header().Set(CachedHeader, "true")
			writeRawJSON(w, http.StatusOK, cached)
			return
		}
	}

	w.Header().Set(FallbackHeader, "true")
	writeJSON(w, http.StatusOK, struct {
		Value []models.CountryEntry `json:"value"`
	}{Value: g.data.Countries})
}

// LifeExpectancy handles GET /api/life-expectancy?country=X&sex=Y.
//
// Success and upstream HTTP errors pass through unchanged. Network-class
// failures are recovered from the cache, then from the static per-country
// table; only a country absent from both produces an error response.
func (g *Gateway) LifeExpectancy(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	countryCode := r.URL.Query().Get("country")
	sexCode := r.URL.Query().Get("sex")
	if countryCode == "" || sexCode == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Missing required query parameters: country, sex",
		})
		return
	}

	body, err := g.who.FetchLifeExpectancy(r.Context(), countryCode, sexCode)
	if err == nil {
		if g.store != nil {
			if cacheErr := g.store.PutObservation(countryCode, sexCode, body); cacheErr != nil {
				log.Printf("Failed to cache observation %s/%s: %v", countryCode, sexCode, cacheErr)
			}
		}
		writeRawJSON(w, http.StatusOK, body)
		return
	}

	var httpErr *upstream.HTTPError
	if errors.As(err, &httpErr) {
		// The WHO API answered with an error status (e.g. a malformed
		// query); pass its status and details through unchanged.
		log.Printf("WHO API error %d for %s/%s", httpErr.StatusCode, countryCode, sexCode)
		writeJSON(w, httpErr.StatusCode, map[string]string{
			"error":   "Failed to fetch data from WHO API",
			"details": httpErr.Body,
		})
		return
	}

	// Network-class failure: the WHO API is unreachable.
	log.Printf("WHO API unreachable for %s/%s: %v", countryCode, sexCode, err)

	if g.store != nil {
		cached, ok, cacheErr := g.store.GetObservation(countryCode, sexCode)
		if cacheErr != nil {
			log.Printf("Observation cache read failed: %v", cacheErr)
		} else if ok {
			w.Header().Set(CachedHeader, "true")
			writeRawJSON(w, http.StatusOK, cached)
			return
		}
	}

	if years, ok := g.data.LifeExpectancy(countryCode, sexCode); ok {
		w.Header().Set(FallbackHeader, "true")
		writeJSON(w, http.StatusOK, envelope{Value: []observation{{
			NumericValue: years,
			SpatialDim:   countryCode,
			Dim1:         sexCode,
			// TimeDim is 0: fallback values carry no observation year.
		}}})
		return
	}

	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   "Internal server error while contacting WHO API",
		"details": err.Error(),
	})
}

// Quote handles GET /api/quote: forwards to the quote API's random endpoint
// and unwraps its single-element array into one {q, a} object. There is no
// fallback quote; any failure is an error response.
func (g *Gateway) Quote(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	body, err := g.quotes.FetchRandom(r.Context())
	if err != nil {
		var httpErr *upstream.HTTPError
		if errors.As(err, &httpErr) {
			log.Printf("Quote API error %d", httpErr.StatusCode)
			writeJSON(w, httpErr.StatusCode, map[string]string{
				"error": "Failed to fetch quote from external API",
			})
			return
		}
		log.Printf("Quote API unreachable: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Network error or internal server error",
		})
		return
	}

	var quotes []models.Quote
	if err := json.Unmarshal(body, &quotes); err != nil || len(quotes) == 0 {
		log.Printf("Quote API returned unexpected payload: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Received empty data from quote API",
		})
		return
	}

	writeJSON(w, http.StatusOK, quotes[0])
}

// setCORS attaches the permissive cross-origin headers every gateway
// response carries, so a purely static frontend can call the endpoints from
// any origin.
func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
}

func writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
