// Package taxee provides the federal and state tax tables published by the
// taxee project, as an equity.TaxTableProvider.
//
// Documents are fetched once per client, rate limited, and cached on disk
// for the day.
package taxee

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/equity"
	"golang.org/x/time/rate"
)

// Client fetches tax tables from the taxee statistics. It is safe for
// concurrent use.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter

	mu   sync.Mutex
	docs map[string]*document // by url.
}

// document is a fetched json document, loaded at most once.
type document struct {
	once sync.Once
	v    any
	err  error
}

// New returns a client configured by cfg.
func New(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	client := new(http.Client)
	if cfg.Cache {
		client = daily()
	}
	return &Client{
		cfg:     cfg,
		http:    client,
		limiter: rate.NewLimiter(limit, cfg.Burst),
		docs:    make(map[string]*document),
	}
}

// Lookup implements equity.TaxTableProvider.
func (c *Client) Lookup(ctx context.Context, q equity.TableQuery) (equity.TaxTable, error) {
	q, err := q.Check()
	if err != nil {
		return equity.TaxTable{}, err
	}
	year := q.Year
	if c.cfg.LatestYear > 0 {
		year = min(year, c.cfg.LatestYear)
	}
	addr := fmt.Sprintf("%s/%d/%s.json", strings.TrimSuffix(c.cfg.URL, "/"), year, q.Region)
	doc, err := c.document(ctx, addr)
	if err != nil {
		return equity.TaxTable{}, fmt.Errorf("cannot get %s tax tables: %w", q.Region, err)
	}

	path := "$." + string(q.Status)
	if q.Region == equity.Federal {
		path = "$.tax_withholding_percentage_method_tables.annual." + string(q.Status)
	}
	jval, err := jsonpath.Get(path, doc)
	if err != nil {
		return equity.TaxTable{}, fmt.Errorf("%w: no %q table in %s: %w", equity.ErrInvalidRegion, q.Status, addr, err)
	}
	rateKey := "marginal_rate"
	if q.CapitalGains {
		rateKey = "marginal_capital_gain_rate"
	}
	t, err := parseTable(jval, rateKey)
	if err != nil {
		return equity.TaxTable{}, fmt.Errorf("cannot parse %s %q table: %w", addr, q.Status, err)
	}
	return t, nil
}

// document returns the decoded json document at addr, fetching it the first
// time only.
func (c *Client) document(ctx context.Context, addr string) (any, error) {
	c.mu.Lock()
	d, ok := c.docs[addr]
	if !ok {
		d = new(document)
		c.docs[addr] = d
	}
	c.mu.Unlock()

	d.once.Do(func() {
		if d.err = c.limiter.Wait(ctx); d.err != nil {
			return
		}
		d.err = jwget(ctx, c.http, addr, &d.v)
	})
	if d.err != nil {
		// let a later call retry.
		c.mu.Lock()
		if c.docs[addr] == d {
			delete(c.docs, addr)
		}
		c.mu.Unlock()
	}
	return d.v, d.err
}

// parseTable reads a filing status object:
//
//	{
//	  "deductions": [{"deduction_name": "Standard Deduction (Single)", "deduction_amount": 12400}],
//	  "income_tax_brackets": [{"bracket": 0, "marginal_rate": 10, "marginal_capital_gain_rate": 0}]
//	}
//
// Null brackets, for states without income tax, give an empty table.
func parseTable(jval any, rateKey string) (equity.TaxTable, error) {
	var t equity.TaxTable
	obj, ok := jval.(map[string]any)
	if !ok {
		return t, fmt.Errorf("not an object: %v", jval)
	}

	if deduction, err := jsonpath.Get("$.deductions[0].deduction_amount", obj); err == nil {
		amount, ok := deduction.(float64)
		if !ok {
			return t, fmt.Errorf("deduction is not a number: %v", deduction)
		}
		t.Deduction = equity.USD(amount)
	}

	brackets, _ := obj["income_tax_brackets"].([]any)
	for i, b := range brackets {
		bracket, ok := b.(map[string]any)
		if !ok {
			return t, fmt.Errorf("bracket #%d is not an object: %v", i, b)
		}
		level, ok := bracket["bracket"].(float64)
		if !ok {
			return t, fmt.Errorf("bracket #%d has no income level", i)
		}
		percent, ok := bracket[rateKey].(float64)
		if !ok {
			return t, fmt.Errorf("bracket #%d has no %s", i, rateKey)
		}
		t.Brackets = append(t.Brackets, equity.Bracket{
			IncomeLevel:  equity.USD(level),
			MarginalRate: equity.Percent(percent),
		})
	}
	return t, nil
}

var _ equity.TaxTableProvider = (*Client)(nil)
