package nutrition

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quietfjord/macrolog/internal/services"
)

func TestLookupParsesNutrientsResponse(t *testing.T) {
	var gotAppID, gotAppKey, gotPath string
	var gotQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAppID = r.Header.Get("x-app-id")
		gotAppKey = r.Header.Get("x-app-key")
		gotPath = r.URL.Path

		body, _ := io.ReadAll(r.Body)
		var payload struct {
			Query string `json:"query"`
		}
		_ = json.Unmarshal(body, &payload)
		gotQuery = payload.Query

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"foods": [
				{
					"food_name": "banana",
					"serving_weight_grams": 118,
					"nf_calories": 105.02,
					"nf_protein": 1.29,
					"nf_total_carbohydrate": 26.95,
					"nf_total_fat": 0.39,
					"tag_id": "447"
				},
				{
					"food_name": "toast",
					"nf_calories": 79.2,
					"tag_id": 712
				}
			]
		}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("app-id", "app-key", server.URL)
	foods, err := client.Lookup(context.Background(), "banana and toast")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if gotPath != "/natural/nutrients" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotAppID != "app-id" || gotAppKey != "app-key" {
		t.Fatalf("expected credential headers, got id=%q key=%q", gotAppID, gotAppKey)
	}
	if gotQuery != "banana and toast" {
		t.Fatalf("unexpected query %q", gotQuery)
	}

	if len(foods) != 2 {
		t.Fatalf("expected two foods, got %d", len(foods))
	}
	banana := foods[0]
	if banana.Name != "banana" || banana.ServingWeightG != 118 {
		t.Fatalf("unexpected first food %+v", banana)
	}
	if banana.Calories != 105.02 || banana.ProteinG != 1.29 || banana.CarbsG != 26.95 || banana.FatG != 0.39 {
		t.Fatalf("unexpected macros %+v", banana)
	}
	if banana.TagID != "447" {
		t.Fatalf("expected string tag id, got %q", banana.TagID)
	}

	// The provider sometimes sends tag_id as a bare number.
	if foods[1].TagID != "712" {
		t.Fatalf("expected numeric tag id coerced to string, got %q", foods[1].TagID)
	}
	if foods[1].ServingWeightG != 0 {
		t.Fatalf("expected missing serving weight to stay zero, got %v", foods[1].ServingWeightG)
	}
}

func TestLookupNullTagID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"foods": [{"food_name": "broth", "nf_calories": 12, "tag_id": null}]}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("id", "key", server.URL)
	foods, err := client.Lookup(context.Background(), "broth")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(foods) != 1 || foods[0].TagID != "" {
		t.Fatalf("expected empty tag id, got %+v", foods)
	}
}

func TestLookupEmptyFoodsIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"foods": []}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("id", "key", server.URL)
	foods, err := client.Lookup(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(foods) != 0 {
		t.Fatalf("expected no foods, got %d", len(foods))
	}
}

func TestLookupNon200IsUpstreamUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "usage limits exceeded"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("id", "key", server.URL)
	if _, err := client.Lookup(context.Background(), "banana"); !errors.Is(err, services.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestLookupMalformedBodyIsUpstreamUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("id", "key", server.URL)
	if _, err := client.Lookup(context.Background(), "banana"); !errors.Is(err, services.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestLookupConnectionFailureIsUpstreamUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClientWithBaseURL("id", "key", server.URL)
	if _, err := client.Lookup(context.Background(), "banana"); !errors.Is(err, services.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}
