package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/cloudsound/api-gateway/internal/aggregator"
	"github.com/cloudsound/api-gateway/internal/http/middleware"
)

// decodeList unmarshals a fan-out result into a JSON array, treating a
// failed or malformed call as an empty list rather than an error.
func decodeList(r aggregator.Result) []json.RawMessage {
	if r.Err != nil || len(r.Data) == 0 {
		return []json.RawMessage{}
	}
	var list []json.RawMessage
	if err := json.Unmarshal(r.Data, &list); err != nil {
		return []json.RawMessage{}
	}
	return list
}

// decodeObject unmarshals a fan-out result into a JSON object, treating a
// failed or malformed call as an empty object.
func decodeObject(r aggregator.Result) map[string]any {
	if r.Err != nil || len(r.Data) == 0 {
		return map[string]any{}
	}
	var obj map[string]any
	if err := json.Unmarshal(r.Data, &obj); err != nil {
		return map[string]any{}
	}
	return obj
}

func truncate(items []json.RawMessage, limit int) []json.RawMessage {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

// Home fans out to radio (featured stations) and concerts (upcoming), and
// returns whatever partial data it gathered — a backend failure never
// changes the 200 status.
func Home(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		results := d.Aggregator.Run(c.Request.Context(), []aggregator.Call{
			{
				Name:    "radio_stations",
				Method:  "GET",
				URL:     d.Config.Services.Radio + "/api/v1/radio/stations?limit=6",
				Timeout: d.Config.Timeouts.Aggregator,
			},
			{
				Name:    "upcoming_concerts",
				Method:  "GET",
				URL:     d.Config.Services.Concerts + "/api/v1/concerts?limit=6&upcoming=true",
				Timeout: d.Config.Timeouts.Aggregator,
			},
		})

		ok(c, gin.H{
			"featured_stations": truncate(decodeList(results[0]), 6),
			"upcoming_concerts": truncate(decodeList(results[1]), 6),
		})
	}
}

// Dashboard fans out to analytics (listening history) and radio
// (recommendations) for the authenticated caller. Mounted behind
// RequireUser.
func Dashboard(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := middleware.StateFrom(c).Principal

		results := d.Aggregator.Run(c.Request.Context(), []aggregator.Call{
			{
				Name:    "listening_history",
				Method:  "GET",
				URL:     d.Config.Services.Analytics + "/api/v1/analytics/history?user_id=" + principal.Subject + "&limit=10",
				Timeout: d.Config.Timeouts.Aggregator,
			},
			{
				Name:    "recommended_stations",
				Method:  "GET",
				URL:     d.Config.Services.Radio + "/api/v1/radio/stations?limit=4",
				Timeout: d.Config.Timeouts.Aggregator,
			},
		})

		ok(c, gin.H{
			"user_id":              principal.Subject,
			"listening_history":    decodeList(results[0]),
			"recommended_stations": decodeList(results[1]),
		})
	}
}

// AdminOverview fans out to every service's stats endpoint. Mounted behind
// RequireAdmin.
func AdminOverview(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := middleware.StateFrom(c).Principal

		results := d.Aggregator.Run(c.Request.Context(), []aggregator.Call{
			{
				Name:    "radio_stats",
				Method:  "GET",
				URL:     d.Config.Services.Radio + "/api/v1/radio/stats",
				Timeout: d.Config.Timeouts.Aggregator,
			},
			{
				Name:    "concert_stats",
				Method:  "GET",
				URL:     d.Config.Services.Concerts + "/api/v1/concerts/stats",
				Timeout: d.Config.Timeouts.Aggregator,
			},
			{
				Name:    "analytics_stats",
				Method:  "GET",
				URL:     d.Config.Services.Analytics + "/api/v1/analytics/stats",
				Timeout: d.Config.Timeouts.Aggregator,
			},
			{
				Name:    "storage_stats",
				Method:  "GET",
				URL:     d.Config.Services.Discovery + "/api/v1/discover/storage/stats",
				Timeout: d.Config.Timeouts.Aggregator,
			},
		})

		ok(c, gin.H{
			"admin_id":        principal.Subject,
			"radio_stats":     decodeObject(results[0]),
			"concert_stats":   decodeObject(results[1]),
			"analytics_stats": decodeObject(results[2]),
			"storage_stats":   decodeObject(results[3]),
		})
	}
}
