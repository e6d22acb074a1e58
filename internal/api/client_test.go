package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// sampleData returns one valid day of Istanbul timings.
func sampleData(day int) Data {
	return Data{
		Timings: Timings{
			Imsak:    "05:02",
			Fajr:     "05:12 (+03)",
			Sunrise:  "06:38",
			Dhuhr:    "13:14",
			Asr:      "16:18",
			Sunset:   "18:42",
			Maghrib:  "18:47 (+03)",
			Isha:     "20:05",
			Midnight: "00:14",
		},
		Date: DateInfo{
			Readable: fmt.Sprintf("%02d Feb 2026", day),
			Hijri: HijriDate{
				Day:     fmt.Sprintf("%d", day),
				Weekday: Weekday{En: "Al Khamees"},
				Month:   HijriMonth{Number: 8, En: "Shaʿbān"},
				Year:    "1447",
			},
			Gregorian: GregorianDate{
				Date:    fmt.Sprintf("%02d-02-2026", day),
				Weekday: Weekday{En: "Thursday"},
			},
		},
		Meta: Meta{Timezone: "Europe/Istanbul", Method: MethodInfo{ID: 13, Name: "Diyanet"}},
	}
}

func TestNewClient(t *testing.T) {
	c := NewClient()
	if c == nil {
		t.Fatal("NewClient returned nil")
	}
	if c.BaseURL != defaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", c.BaseURL, defaultBaseURL)
	}
}

func TestTimingsByCity_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/timingsByCity/19-02-2026" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("city") != "Istanbul" {
			t.Errorf("city = %q, want %q", q.Get("city"), "Istanbul")
		}
		if q.Get("country") != "Turkey" {
			t.Errorf("country = %q, want %q", q.Get("country"), "Turkey")
		}
		if q.Get("method") != "13" {
			t.Errorf("method = %q, want %q", q.Get("method"), "13")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Response{Code: 200, Status: "OK", Data: sampleData(19)})
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	date := time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC)
	got, err := c.TimingsByCity(context.Background(), date, "Istanbul", "Turkey", DefaultMethod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Data.Timings.Fajr != "05:12 (+03)" {
		t.Errorf("Fajr = %q, want %q", got.Data.Timings.Fajr, "05:12 (+03)")
	}
	if got.Data.Date.Hijri.Month.En != "Shaʿbān" {
		t.Errorf("Hijri month = %q", got.Data.Date.Hijri.Month.En)
	}
	if got.Code != 200 || got.Status != "OK" {
		t.Errorf("envelope = %d %q, want 200 OK", got.Code, got.Status)
	}
}

func TestTimingsByCity_NoMethod(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if q := r.URL.Query(); q.Get("method") != "" {
			t.Errorf("method should not be set, got %q", q.Get("method"))
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Response{Code: 200, Status: "OK", Data: sampleData(1)})
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	if _, err := c.TimingsByCity(context.Background(), time.Now(), "Ankara", "Turkey", -1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCalendarByCity_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/calendarByCity" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("month") != "2" || q.Get("year") != "2026" {
			t.Errorf("month/year = %q/%q, want 2/2026", q.Get("month"), q.Get("year"))
		}
		if q.Get("method") != "13" {
			t.Errorf("method = %q, want 13", q.Get("method"))
		}

		days := make([]Data, 28)
		for i := range days {
			days[i] = sampleData(i + 1)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(CalendarResponse{Code: 200, Status: "OK", Data: days})
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	got, err := c.CalendarByCity(context.Background(), 2026, time.February, "Kayseri", "Turkey", DefaultMethod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Data) != 28 {
		t.Fatalf("got %d days, want 28", len(got.Data))
	}
	if got.Data[27].Date.Gregorian.Date != "28-02-2026" {
		t.Errorf("last day = %q", got.Data[27].Date.Gregorian.Date)
	}
}

func TestRequestErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantMsg string
	}{
		{
			name: "http 503",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			},
			wantMsg: "503",
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
			wantMsg: "decode",
		},
		{
			name: "api error code",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"code":400,"status":"Bad Request","data":"Unable to find city."}`))
			},
			wantMsg: "code=400",
		},
		{
			name: "api error message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"code":400,"status":"Bad Request","data":"Unable to find city."}`))
			},
			wantMsg: "Unable to find city.",
		},
		{
			name: "wrong data shape",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"code":200,"status":"OK","data":"unexpected"}`))
			},
			wantMsg: "decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			c := NewClient()
			c.BaseURL = server.URL

			_, err := c.TimingsByCity(context.Background(), time.Now(), "Batman", "Turkey", DefaultMethod)
			if err == nil {
				t.Fatal("expected daily error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("daily error should mention %q, got: %v", tt.wantMsg, err)
			}

			_, err = c.CalendarByCity(context.Background(), 2026, time.March, "Batman", "Turkey", DefaultMethod)
			if err == nil {
				t.Fatal("expected calendar error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("calendar error should mention %q, got: %v", tt.wantMsg, err)
			}
		})
	}
}

func TestTimingsByCity_ConnectionRefused(t *testing.T) {
	c := NewClient()
	c.BaseURL = "http://127.0.0.1:1" // nothing listening

	_, err := c.TimingsByCity(context.Background(), time.Now(), "Kocaeli", "Turkey", DefaultMethod)
	if err == nil {
		t.Fatal("expected error for connection refused, got nil")
	}
}

func TestTimingsByCity_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Response{Code: 200, Status: "OK", Data: sampleData(1)})
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.TimingsByCity(ctx, time.Now(), "Istanbul", "Turkey", DefaultMethod); err == nil {
		t.Fatal("expected error for canceled context, got nil")
	}
}
