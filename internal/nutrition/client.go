package nutrition

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quietfjord/macrolog/internal/services"
)

const defaultBaseURL = "https://trackapi.nutritionix.com/v2"

// Client calls the Nutritionix natural-language nutrients endpoint. Any
// transport failure, timeout or non-200 response surfaces as
// services.ErrUpstreamUnavailable; an empty result list is not an error
// here, the resolver decides what a miss means.
type Client struct {
	baseURL string
	appID   string
	appKey  string
	client  *http.Client
}

func NewClient(appID string, appKey string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		appID:   appID,
		appKey:  appKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithBaseURL points the client at an alternate endpoint, used by
// tests against a local server.
func NewClientWithBaseURL(appID string, appKey string, baseURL string) *Client {
	client := NewClient(appID, appKey)
	client.baseURL = strings.TrimRight(baseURL, "/")
	return client
}

type naturalNutrientsRequest struct {
	Query string `json:"query"`
}

type naturalNutrientsFood struct {
	FoodName           string     `json:"food_name"`
	ServingWeightGrams float64    `json:"serving_weight_grams"`
	Calories           float64    `json:"nf_calories"`
	Protein            float64    `json:"nf_protein"`
	Carbs              float64    `json:"nf_total_carbohydrate"`
	Fat                float64    `json:"nf_total_fat"`
	TagID              flexibleID `json:"tag_id"`
}

type naturalNutrientsResponse struct {
	Foods []naturalNutrientsFood `json:"foods"`
}

func (c *Client) Lookup(ctx context.Context, query string) ([]services.LookupFood, error) {
	payload, err := json.Marshal(naturalNutrientsRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("marshal nutrients payload: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/natural/nutrients", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build nutrients request: %w", err)
	}
	request.Header.Set("x-app-id", c.appID)
	request.Header.Set("x-app-key", c.appKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := c.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", services.ErrUpstreamUnavailable, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", services.ErrUpstreamUnavailable, err)
	}
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: nutrients API status %d", services.ErrUpstreamUnavailable, response.StatusCode)
	}

	var parsed naturalNutrientsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", services.ErrUpstreamUnavailable, err)
	}

	foods := make([]services.LookupFood, 0, len(parsed.Foods))
	for _, food := range parsed.Foods {
		foods = append(foods, services.LookupFood{
			Name:           food.FoodName,
			ServingWeightG: food.ServingWeightGrams,
			Calories:       food.Calories,
			ProteinG:       food.Protein,
			CarbsG:         food.Carbs,
			FatG:           food.Fat,
			TagID:          string(food.TagID),
		})
	}
	return foods, nil
}

// flexibleID accepts the tag id as a JSON string, number or null; the
// provider is not consistent about it.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*id = ""
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*id = flexibleID(strings.TrimSpace(value))
		return nil
	}

	var value json.Number
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*id = flexibleID(value.String())
	return nil
}
