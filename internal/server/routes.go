package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/smokyabdulrahman/imsakiye/internal/alert"
	"github.com/smokyabdulrahman/imsakiye/internal/countdown"
	"github.com/smokyabdulrahman/imsakiye/internal/observance"
)

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/cities", s.handleCities)
	api.GET("/daily", s.handleDaily)
	api.GET("/monthly", s.handleMonthly)
	api.GET("/window", s.handleWindow)
	api.GET("/window/:city", s.handleCityWindow)
	api.GET("/countdown/:city", s.handleCountdown)
	api.GET("/alerts", s.handleAlerts)
	api.GET("/live/:city", s.handleLive)
}

func (s *Server) handleCities(c *gin.Context) {
	cities := s.svc.Cities()
	out := make([]cityJSON, len(cities))
	for i, city := range cities {
		out[i] = cityJSON{Name: city.Name, Country: city.Country}
	}
	c.JSON(http.StatusOK, gin.H{"cities": out, "window": toWindow(s.svc.Window())})
}

// handleDaily returns today's snapshot for every city that resolved, in
// configured order.
func (s *Server) handleDaily(c *gin.Context) {
	m := s.svc.Daily(c.Request.Context())
	out := make([]dailyJSON, 0, len(m))
	for _, city := range s.svc.Cities() {
		snap, ok := m[city.Name]
		if !ok {
			continue
		}
		d := s.svc.Annotate(snap)[0]
		out = append(out, dailyJSON{City: city.Name, Day: toDay(d, s.opts.TimeFormat)})
	}
	c.JSON(http.StatusOK, gin.H{"date": s.svc.Now().Format("2006-01-02"), "cities": out})
}

func (s *Server) handleMonthly(c *gin.Context) {
	m := s.svc.Monthly(c.Request.Context())
	out := make([]cityDaysJSON, 0, len(m))
	for _, city := range s.svc.Cities() {
		sched, ok := m[city.Name]
		if !ok {
			continue
		}
		out = append(out, cityDaysJSON{City: city.Name, Days: toDays(s.svc.Annotate(sched...), s.opts.TimeFormat)})
	}
	c.JSON(http.StatusOK, gin.H{"cities": out})
}

func (s *Server) handleWindow(c *gin.Context) {
	wm := s.svc.Observance(c.Request.Context())
	out := make([]cityDaysJSON, 0, len(wm))
	for _, city := range s.svc.Cities() {
		days := s.svc.ObservanceDays(city.Name, wm)
		if len(days) == 0 {
			continue
		}
		out = append(out, cityDaysJSON{City: city.Name, Days: toDays(days, s.opts.TimeFormat)})
	}
	c.JSON(http.StatusOK, gin.H{"window": toWindow(s.svc.Window()), "cities": out})
}

// handleCityWindow returns one city's window as JSON, or as an iCalendar
// file with ?format=ics.
func (s *Server) handleCityWindow(c *gin.Context) {
	if _, ok := s.svc.LookupCity(c.Param("city")); !ok {
		c.JSON(http.StatusNotFound, errorJSON{Error: fmt.Sprintf("unknown city %q", c.Param("city"))})
		return
	}
	city, days, err := s.svc.CityWindow(c.Request.Context(), c.Param("city"))
	if err != nil {
		c.JSON(http.StatusBadGateway, errorJSON{Error: err.Error()})
		return
	}

	if strings.EqualFold(c.Query("format"), "ics") {
		var buf bytes.Buffer
		if err := observance.WriteICS(&buf, city, days, s.svc.Location(), s.svc.Now()); err != nil {
			s.log.Error().Err(err).Str("city", city.Name).Msg("encoding calendar")
			c.JSON(http.StatusInternalServerError, errorJSON{Error: "calendar encoding failed"})
			return
		}
		filename := strings.ToLower(strings.Join(strings.Fields(city.Name), "-")) + ".ics"
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
		return
	}

	c.JSON(http.StatusOK, cityDaysJSON{City: city.Name, Days: toDays(days, s.opts.TimeFormat)})
}

// handleCountdown returns the next boundary for a city. A known city with no
// snapshot yields a null target.
func (s *Server) handleCountdown(c *gin.Context) {
	city, ok := s.svc.LookupCity(c.Param("city"))
	if !ok {
		c.JSON(http.StatusNotFound, errorJSON{Error: fmt.Sprintf("unknown city %q", c.Param("city"))})
		return
	}
	m := s.svc.Daily(c.Request.Context())
	t, found := s.svc.NextEvent(city.Name, m, s.svc.Now())
	c.JSON(http.StatusOK, toCountdown(city.Name, t, found, s.opts.TimeFormat))
}

func (s *Server) handleAlerts(c *gin.Context) {
	m := s.svc.Daily(c.Request.Context())
	c.JSON(http.StatusOK, toAlerts(s.svc.ActiveAlerts(m, s.svc.Now())))
}

type sseEvent struct {
	name string
	data any
}

// handleLive streams "countdown" and "alerts" events for one city until the
// client disconnects.
func (s *Server) handleLive(c *gin.Context) {
	city, ok := s.svc.LookupCity(c.Param("city"))
	if !ok {
		c.JSON(http.StatusNotFound, errorJSON{Error: fmt.Sprintf("unknown city %q", c.Param("city"))})
		return
	}
	ctx := c.Request.Context()

	events := make(chan sseEvent, 16)
	push := func(ev sseEvent) {
		select {
		case events <- ev:
		default:
			// Slow client; the next tick supersedes this one.
		}
	}

	opts := s.liveOptions()
	opts.OnCountdown = func(t countdown.Target, ok bool) {
		push(sseEvent{name: "countdown", data: toCountdown(city.Name, t, ok, s.opts.TimeFormat)})
	}
	opts.OnAlerts = func(alerts []alert.Alert) {
		push(sseEvent{name: "alerts", data: toAlerts(alerts)})
	}

	sess := s.svc.NewSession(opts)
	sess.Apply(s.svc.Daily(ctx))
	sess.Select(city.Name)
	if err := sess.Start(); err != nil {
		c.JSON(http.StatusInternalServerError, errorJSON{Error: err.Error()})
		return
	}
	defer sess.Stop()

	s.log.Debug().Str("city", city.Name).Msg("live stream opened")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev := <-events:
			c.SSEvent(ev.name, ev.data)
			return true
		}
	})
	s.log.Debug().Str("city", city.Name).Msg("live stream closed")
}
