package controllers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestFormatTimePtr(t *testing.T) {
	assert.Nil(t, formatTimePtr(nil))

	now := time.Date(2024, 5, 1, 12, 34, 56, 0, time.Local)
	formatted := formatTimePtr(&now)
	assert.IsType(t, "", formatted)

	expected := now.UTC().Format(time.RFC3339)
	assert.Equal(t, expected, formatted)
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantOffset int
		wantLimit  int
	}{
		{name: "defaults", query: "", wantOffset: 0, wantLimit: 20},
		{name: "second page", query: "?page=2&per_page=10", wantOffset: 10, wantLimit: 10},
		{name: "per page capped", query: "?per_page=500", wantOffset: 0, wantLimit: 100},
		{name: "garbage falls back", query: "?page=x&per_page=y", wantOffset: 0, wantLimit: 20},
		{name: "negative page falls back", query: "?page=-3", wantOffset: 0, wantLimit: 20},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			var offset, limit int
			app.Get("/", func(c *fiber.Ctx) error {
				offset, limit = parsePagination(c)
				return nil
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/"+tc.query, nil))
			assert.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.wantOffset, offset)
			assert.Equal(t, tc.wantLimit, limit)
		})
	}
}

func TestParseUintParam(t *testing.T) {
	app := fiber.New()
	var got uint
	var gotErr error
	app.Get("/:id", func(c *fiber.Ctx) error {
		got, gotErr = parseUintParam(c, "id")
		return nil
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/42", nil))
	assert.NoError(t, err)
	resp.Body.Close()
	assert.NoError(t, gotErr)
	assert.Equal(t, uint(42), got)

	resp, err = app.Test(httptest.NewRequest("GET", "/abc", nil))
	assert.NoError(t, err)
	resp.Body.Close()
	assert.Error(t, gotErr)
}

func TestValidProfileType(t *testing.T) {
	assert.True(t, validProfileType("adult"))
	assert.True(t, validProfileType("teen"))
	assert.True(t, validProfileType("kids"))
	assert.False(t, validProfileType("Adult"))
	assert.False(t, validProfileType(""))
	assert.False(t, validProfileType("child"))
}
