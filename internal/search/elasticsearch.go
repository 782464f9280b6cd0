package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"example.com/fuelwale/backoffice/config"
	"example.com/fuelwale/backoffice/internal/models"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ElasticClient provides integration with Elasticsearch
type ElasticClient struct {
	client *elasticsearch.Client
	config config.ElasticConfig
}

// NewElasticClient creates a new Elasticsearch client
func NewElasticClient(cfg config.ElasticConfig) (*ElasticClient, error) {
	esConfig := elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	}

	client, err := elasticsearch.NewClient(esConfig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Elasticsearch client")
	}

	return &ElasticClient{
		client: client,
		config: cfg,
	}, nil
}

func (c *ElasticClient) indexName() string {
	if c.config.Prefix == "" {
		return "invoices"
	}
	return fmt.Sprintf("%s-invoices", c.config.Prefix)
}

// IndexInvoice indexes an invoice in Elasticsearch
func (c *ElasticClient) IndexInvoice(ctx context.Context, invoice *models.Invoice) error {
	log.Info().Str("invoice_no", invoice.InvoiceNo).Msg("indexing invoice")

	// Build the document to be indexed
	invoiceDoc := map[string]interface{}{
		"id":               invoice.ID.String(),
		"invoice_no":       invoice.InvoiceNo,
		"trip_id":          invoice.TripID.String(),
		"customer_id":      invoice.CustomerID.String(),
		"party_name":       invoice.PartyName,
		"party_gstin":      invoice.PartyGSTIN,
		"total_quantity_l": invoice.TotalQuantityL,
		"total_amount_p":   invoice.TotalAmountP,
		"created_at":       invoice.CreatedAt,
	}

	for _, line := range invoice.Lines {
		invoiceDoc["dc_nos"] = append(asStringSlice(invoiceDoc["dc_nos"]), line.DcNo)
		invoiceDoc["products"] = append(asStringSlice(invoiceDoc["products"]), line.Product)
	}

	docJson, err := json.Marshal(invoiceDoc)
	if err != nil {
		return errors.Wrap(err, "failed to marshal invoice document")
	}

	req := esapi.IndexRequest{
		Index:      c.indexName(),
		DocumentID: invoice.TripID.String(),
		Body:       bytes.NewReader(docJson),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return errors.Wrap(err, "failed to execute Elasticsearch index request")
	}
	defer res.Body.Close()

	if res.IsError() {
		var e map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&e); err != nil {
			return errors.Wrap(err, "failed to parse Elasticsearch error response")
		}
		return errors.Errorf("Elasticsearch index error: %v", e)
	}

	log.Info().Str("invoice_no", invoice.InvoiceNo).Msg("invoice indexed successfully")
	return nil
}

func asStringSlice(v interface{}) []string {
	if s, ok := v.([]string); ok {
		return s
	}
	return nil
}

// SearchInvoices searches indexed invoices and returns the matching trip IDs
func (c *ElasticClient) SearchInvoices(ctx context.Context, query string) ([]uuid.UUID, error) {
	searchBody := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"invoice_no", "party_name", "party_gstin", "dc_nos", "products"},
			},
		},
		"_source": []string{"trip_id"},
	}

	queryJSON, err := json.Marshal(searchBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal search query")
	}

	req := esapi.SearchRequest{
		Index: []string{c.indexName()},
		Body:  bytes.NewReader(queryJSON),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute Elasticsearch search request")
	}
	defer res.Body.Close()

	if res.IsError() {
		var e map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&e); err != nil {
			return nil, errors.Wrap(err, "failed to parse Elasticsearch error response")
		}
		return nil, errors.Errorf("Elasticsearch search error: %v", e)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "failed to parse Elasticsearch search response")
	}

	hits, ok := result["hits"].(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected search result format")
	}

	hitsArray, ok := hits["hits"].([]interface{})
	if !ok {
		return nil, errors.New("unexpected hits format")
	}

	var tripIDs []uuid.UUID
	for _, hit := range hitsArray {
		hitMap, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}

		source, ok := hitMap["_source"].(map[string]interface{})
		if !ok {
			continue
		}

		raw, ok := source["trip_id"].(string)
		if !ok {
			continue
		}

		tripID, err := uuid.Parse(raw)
		if err != nil {
			log.Warn().Str("trip_id", raw).Msg("skipping malformed trip id in search hit")
			continue
		}
		tripIDs = append(tripIDs, tripID)
	}

	return tripIDs, nil
}
