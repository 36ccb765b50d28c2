package lifeexp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(url string) *Client {
	return NewClient(url+"/api", 2*time.Second)
}

func serve(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestLifeExpectancySuccess(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/life-expectancy" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("country") != "CAN" || r.URL.Query().Get("sex") != "MLE" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"value":[{"NumericValue":80.4,"SpatialDim":"CAN","Dim1":"MLE","TimeDim":2021}]}`))
	})

	res := newTestClient(srv.URL).LifeExpectancy(context.Background(), "CAN", "MLE")
	if !res.OK() {
		t.Fatalf("expected success, got %v: %s", res.Err, res.Message)
	}
	if res.Years != 80.4 {
		t.Errorf("Years = %v, want 80.4", res.Years)
	}
}

func TestLifeExpectancyFailureKinds(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantKind ErrKind
	}{
		{
			name: "gateway error with server text",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"Internal server error while contacting WHO API","details":"connect refused"}`))
			},
			wantKind: ErrGateway,
		},
		{
			name: "empty value array",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"value":[]}`))
			},
			wantKind: ErrNoData,
		},
		{
			name: "missing NumericValue",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"value":[{"SpatialDim":"CAN"}]}`))
			},
			wantKind: ErrBadFormat,
		},
		{
			name: "not JSON at all",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>oops</html>`))
			},
			wantKind: ErrBadFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.handler)
			res := newTestClient(srv.URL).LifeExpectancy(context.Background(), "CAN", "MLE")

			if res.OK() {
				t.Fatal("expected a failure result")
			}
			if res.Err != tt.wantKind {
				t.Errorf("kind = %v, want %v", res.Err, tt.wantKind)
			}
			if res.Message == "" {
				t.Error("failure result must carry a user-facing message")
			}
		})
	}
}

func TestLifeExpectancyGatewayErrorUsesServerText(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"Failed to fetch data from WHO API"}`))
	})

	res := newTestClient(srv.URL).LifeExpectancy(context.Background(), "CAN", "MLE")
	if res.Err != ErrGateway {
		t.Fatalf("kind = %v", res.Err)
	}
	if res.Message != "Failed to fetch data from WHO API" {
		t.Errorf("message = %q, want the server-supplied text", res.Message)
	}
}

func TestLifeExpectancyUnreachableGateway(t *testing.T) {
	res := NewClient("http://127.0.0.1:1/api", time.Second).LifeExpectancy(context.Background(), "CAN", "MLE")

	if res.Err != ErrUnreachable {
		t.Fatalf("kind = %v, want ErrUnreachable", res.Err)
	}
	if res.Message == "" {
		t.Error("expected a connection-issue message")
	}
}

func TestCountries(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":[{"Code":"CAN","Title":"Canada"},{"Code":"JPN","Title":"Japan"}]}`))
	})

	countries, err := newTestClient(srv.URL).Countries(context.Background())
	if err != nil {
		t.Fatalf("Countries() error: %v", err)
	}
	if len(countries) != 2 || countries[0].Code != "CAN" {
		t.Errorf("countries = %+v", countries)
	}
}

func TestCountriesEmptyListIsError(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":[]}`))
	})

	if _, err := newTestClient(srv.URL).Countries(context.Background()); err == nil {
		t.Error("expected error for empty country list")
	}
}

func TestRandomQuote(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"q":"Lost time is never found again.","a":"Benjamin Franklin"}`))
	})

	quote, err := newTestClient(srv.URL).RandomQuote(context.Background())
	if err != nil {
		t.Fatalf("RandomQuote() error: %v", err)
	}
	if quote.Text != "Lost time is never found again." || quote.Author != "Benjamin Franklin" {
		t.Errorf("quote = %+v", quote)
	}
}

func TestRandomQuoteFailure(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Network error or internal server error"}`))
	})

	if _, err := newTestClient(srv.URL).RandomQuote(context.Background()); err == nil {
		t.Error("expected error for gateway failure")
	}
}
