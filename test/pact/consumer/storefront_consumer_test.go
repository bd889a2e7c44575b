//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/pooch-profile-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error json.RawMessage `json:"error"`
}

type profileRecord struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Fields []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"fields"`
}

type apiError struct {
	status   int
	messages []string
}

func (e apiError) Error() string {
	return fmt.Sprintf("submission failed (status %d): %v", e.status, e.messages)
}

func TestStorefrontContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	submission := pacttest.ExampleSubmission()
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	field := matchers.Map{
		"key":   matchers.Like("name"),
		"value": matchers.Like("Biscuit"),
	}

	pact.AddInteraction().
		Given(pacttest.StateShopifyAccepts).
		UponReceiving("a pooch profile submission").
		WithRequest("POST", "/api/submit", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(submission)
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"ok": matchers.Like(true),
				"data": matchers.Map{
					"id":     matchers.Term(pacttest.ExampleProfileID, `^gid:\/\/shopify\/Metaobject\/\d+$`),
					"type":   matchers.S(pacttest.ExampleProfileType),
					"fields": matchers.ArrayMinLike(field, 1),
				},
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateShopifyAccepts).
		UponReceiving("a pooch profile submission without a name").
		WithRequest("POST", "/api/submit", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(map[string]any{"customerId": pacttest.ExampleCustomerID})
		}).
		WillRespondWith(http.StatusBadRequest, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"ok":    matchers.Like(false),
				"error": matchers.ArrayMinLike("name is required", 1),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateShopifyRejectsType).
		UponReceiving("a pooch profile submission the store rejects").
		WithRequest("POST", "/api/submit", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(submission)
		}).
		WillRespondWith(http.StatusBadRequest, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"ok":    matchers.Like(false),
				"error": matchers.ArrayMinLike(pacttest.RejectedTypeMessage, 1),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newStorefrontClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		created, err := client.Submit(ctx, submission)
		if err != nil {
			return fmt.Errorf("submit profile: %w", err)
		}
		if created == nil || created.ID == "" || len(created.Fields) == 0 {
			return fmt.Errorf("expected a created profile, got %+v", created)
		}

		if _, err := client.Submit(ctx, map[string]any{"customerId": pacttest.ExampleCustomerID}); err == nil {
			return fmt.Errorf("expected a validation failure")
		} else if apiErr, ok := err.(apiError); !ok || apiErr.status != http.StatusBadRequest {
			return fmt.Errorf("expected 400, got %v", err)
		}

		if _, err := client.Submit(ctx, submission); err == nil {
			return fmt.Errorf("expected the store to reject the submission")
		} else if apiErr, ok := err.(apiError); !ok || apiErr.status != http.StatusBadRequest {
			return fmt.Errorf("expected 400, got %v", err)
		}
		return nil
	})
	require.NoError(t, err)
}

type storefrontClient struct {
	baseURL    string
	httpClient *http.Client
}

func newStorefrontClient(config pactconsumer.MockServerConfig) *storefrontClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &storefrontClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *storefrontClient) Submit(ctx context.Context, payload map[string]any) (*profileRecord, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/submit", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, err
	}
	if !env.OK {
		var messages []string
		_ = json.Unmarshal(env.Error, &messages)
		return nil, apiError{status: res.StatusCode, messages: messages}
	}
	var record profileRecord
	if err := json.Unmarshal(env.Data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
