package taxee

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/etnz/equity"
)

// newTestClient serves testdata and counts the requests received.
func newTestClient(t *testing.T) (*Client, *atomic.Int32) {
	t.Helper()
	var requests atomic.Int32
	files := http.FileServer(http.Dir("testdata"))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		files.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(Config{URL: srv.URL, LatestYear: 2020}), &requests
}

func TestClient_Lookup(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	testCases := []struct {
		name      string
		query     equity.TableQuery
		deduction equity.Money
		brackets  int
		bracket   equity.Bracket // the second one, when there is one.
	}{
		{
			name:      "federal",
			query:     equity.TableQuery{Year: 2020, Region: equity.Federal, Status: equity.Single},
			deduction: equity.USD(12_400),
			brackets:  7,
			bracket:   equity.Bracket{IncomeLevel: equity.USD(9_875), MarginalRate: equity.Percent(12)},
		},
		{
			name:      "federal capital gains",
			query:     equity.TableQuery{Year: 2020, Region: equity.Federal, Status: equity.Single, CapitalGains: true},
			deduction: equity.USD(12_400),
			brackets:  7,
			bracket:   equity.Bracket{IncomeLevel: equity.USD(9_875), MarginalRate: equity.Percent(0)},
		},
		{
			name:      "federal married",
			query:     equity.TableQuery{Year: 2020, Region: equity.Federal, Status: equity.Married},
			deduction: equity.USD(24_800),
			brackets:  3,
			bracket:   equity.Bracket{IncomeLevel: equity.USD(19_750), MarginalRate: equity.Percent(12)},
		},
		{
			name:      "later year",
			query:     equity.TableQuery{Year: 2023, Region: equity.Federal, Status: equity.Single},
			deduction: equity.USD(12_400),
			brackets:  7,
			bracket:   equity.Bracket{IncomeLevel: equity.USD(9_875), MarginalRate: equity.Percent(12)},
		},
		{
			name:      "state",
			query:     equity.TableQuery{Year: 2020, Region: "California", Status: equity.Single},
			deduction: equity.USD(4_601),
			brackets:  9,
			bracket:   equity.Bracket{IncomeLevel: equity.USD(8_932), MarginalRate: equity.Percent(2)},
		},
		{
			name:  "no state income tax",
			query: equity.TableQuery{Year: 2020, Region: "texas", Status: equity.Single},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.Lookup(ctx, tc.query)
			if err != nil {
				t.Fatalf("Lookup(%+v) unexpected error: %v", tc.query, err)
			}
			if !got.Deduction.Equal(tc.deduction) {
				t.Errorf("Lookup(%+v).Deduction = %v, want %v", tc.query, got.Deduction, tc.deduction)
			}
			if len(got.Brackets) != tc.brackets {
				t.Fatalf("Lookup(%+v) = %d brackets, want %d", tc.query, len(got.Brackets), tc.brackets)
			}
			if tc.brackets < 2 {
				return
			}
			if b := got.Brackets[1]; !b.IncomeLevel.Equal(tc.bracket.IncomeLevel) || !b.MarginalRate.Equal(tc.bracket.MarginalRate) {
				t.Errorf("Lookup(%+v).Brackets[1] = %v at %v, want %v at %v", tc.query, b.MarginalRate, b.IncomeLevel, tc.bracket.MarginalRate, tc.bracket.IncomeLevel)
			}
		})
	}
}

func TestClient_LookupErrors(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	testCases := []struct {
		name  string
		query equity.TableQuery
	}{
		{"unknown region", equity.TableQuery{Year: 2020, Region: "atlantis", Status: equity.Single}},
		{"state capital gains", equity.TableQuery{Year: 2020, Region: "california", Status: equity.Single, CapitalGains: true}},
		{"unknown status", equity.TableQuery{Year: 2020, Region: "california", Status: equity.HeadOfHousehold}},
		{"unknown year", equity.TableQuery{Year: 2015, Region: equity.Federal, Status: equity.Single}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := c.Lookup(ctx, tc.query); !errors.Is(err, equity.ErrInvalidRegion) {
				t.Errorf("Lookup(%+v) error = %v, want %v", tc.query, err, equity.ErrInvalidRegion)
			}
		})
	}
}

// TestClient_Memoize checks that concurrent lookups in the same document
// fetch it only once.
func TestClient_Memoize(t *testing.T) {
	ctx := context.Background()
	c, requests := newTestClient(t)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q := equity.TableQuery{Year: 2020, Region: equity.Federal, Status: equity.Single, CapitalGains: i%2 == 0}
			if _, err := c.Lookup(ctx, q); err != nil {
				t.Errorf("Lookup(%+v) unexpected error: %v", q, err)
			}
		}()
	}
	wg.Wait()
	if got := requests.Load(); got != 1 {
		t.Errorf("server received %d requests, want 1", got)
	}
}

// TestTaxReport computes a report with the published tables.
func TestTaxReport(t *testing.T) {
	c, _ := newTestClient(t)
	f := equity.Filing{
		Year:         2020,
		GrossIncome:  equity.USD(100_000),
		Withholdings: equity.USD(20_000),
		State:        "california",
		Status:       equity.Single,
	}
	tables, err := equity.FetchTables(context.Background(), c, f)
	if err != nil {
		t.Fatalf("FetchTables() unexpected error: %v", err)
	}
	// federal: 80,000 - 12,400 taxed 987.50 + 12% of (40,125 - 9,875) + 22% of (67,600 - 40,125)
	got := equity.IncomeTaxes(f, tables, equity.Money{})
	if want := equity.USD(10_662); !got.Federal.Equal(want) {
		t.Errorf("IncomeTaxes().Federal = %v, want %v", got.Federal, want)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("EQT_TAXEE_LATEST_YEAR", "2019")
	t.Setenv("EQT_TAXEE_CACHE", "false")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error: %v", err)
	}
	if cfg.LatestYear != 2019 || cfg.Cache || cfg.URL != DefaultURL || cfg.Burst != 3 {
		t.Errorf("LoadConfig() = %+v, want year 2019 without cache from the default url", cfg)
	}

	t.Setenv("EQT_TAXEE_RATE", "fast")
	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig(EQT_TAXEE_RATE=fast) expected an error")
	}
}
