package scrape

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/mercatus/internal/common"
	"github.com/ternarybob/mercatus/internal/httpclient"
	"github.com/ternarybob/mercatus/internal/models"
)

const bulletinListHTML = `<html><body>
	<div class="bulten-item">
		<span class="bulten-tarih">03.08.2026</span>
		<a class="bulten-baslik" href="/Bulten/Index?p=12345">Dış Ticaret İstatistikleri, Haziran 2026</a>
		<p class="bulten-ozet">İhracat yıllık %4,1 arttı.</p>
	</div>
	<div class="bulten-item">
		<span class="bulten-tarih">04.08.2026</span>
		<a class="bulten-baslik" href="/Bulten/Index?p=12346">Tüketici Fiyat Endeksi, Temmuz 2026</a>
		<p class="bulten-ozet">TÜFE aylık %2,06, yıllık %32,87 arttı.</p>
	</div>
	<div class="bulten-item">
		<span class="bulten-tarih"></span>
		<a class="bulten-baslik" href=""></a>
	</div>
</body></html>`

func bulletinConfig(serverURL string) common.BulletinConfig {
	return common.BulletinConfig{
		URL:           serverURL,
		CategoryID:    106,
		LanguageID:    1,
		Page:          1,
		Count:         20,
		Years:         []int{2026, 2025},
		TargetTitle:   "Tüketici Fiyat Endeksi",
		IndicatorCode: "tufe_yillik",
		IndicatorName: "TÜFE (Yıllık)",
		Category:      "inflation",
	}
}

func TestExtractAnnualRate(t *testing.T) {
	tests := []struct {
		name    string
		summary string
		want    float64
		ok      bool
	}{
		{"locale decimal", "TÜFE aylık %2,06, yıllık %32,87 arttı.", 32.87, true},
		{"capitalised keyword", "Yıllık %5,2 azaldı", 5.2, true},
		{"space after percent", "yıllık % 48,58 olarak gerçekleşti", 48.58, true},
		{"integer rate", "yıllık %44 arttı", 44, true},
		{"first match wins", "yıllık %10,5 sonra yıllık %20,5", 10.5, true},
		{"monthly only", "aylık %2,06 arttı", 0, false},
		{"empty summary", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractAnnualRate(tt.summary)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestParseBulletins(t *testing.T) {
	bulletins, err := parseBulletins([]byte(bulletinListHTML))

	require.NoError(t, err)
	// The titleless block is skipped.
	require.Len(t, bulletins, 2)
	assert.Equal(t, "Dış Ticaret İstatistikleri, Haziran 2026", bulletins[0].Title)
	assert.Equal(t, "03.08.2026", bulletins[0].Date)
	assert.Equal(t, "/Bulten/Index?p=12345", bulletins[0].Link)
	assert.Equal(t, "TÜFE aylık %2,06, yıllık %32,87 arttı.", bulletins[1].Summary)
}

func TestBulletinScraper_PostsListFormAndExtractsRate(t *testing.T) {
	var gotForm map[string][]string
	var gotOrigin string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		gotOrigin = r.Header.Get("Origin")
		fmt.Fprint(w, bulletinListHTML)
	}))
	t.Cleanup(server.Close)

	scraper := NewBulletinScraper(bulletinConfig(server.URL), testFetcher(), 0, arbor.NewLogger())
	result, err := scraper.Scrape(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"106"}, gotForm["UstId"])
	assert.Equal(t, []string{"1"}, gotForm["DilId"])
	assert.Equal(t, []string{"1"}, gotForm["Page"])
	assert.Equal(t, []string{"20"}, gotForm["Count"])
	assert.Equal(t, []string{"2026", "2025"}, gotForm["VeriYillari"])
	assert.Equal(t, server.URL, gotOrigin)

	require.Len(t, result.Data, 1)
	datum := result.Data[0]
	assert.Equal(t, "tufe_yillik", datum.Code)
	assert.InDelta(t, 32.87, datum.Value, 1e-9)
	assert.Equal(t, models.KindEconomicIndicator, datum.Kind)
	assert.True(t, datum.DateKeyed)
	assert.Equal(t, time.Date(2026, time.August, 4, 0, 0, 0, 0, time.UTC), datum.Date)
}

func TestBulletinScraper_NoMatchingBulletinIsNotAFailure(t *testing.T) {
	server := htmlServer(t, `<html><body>
		<div class="bulten-item">
			<span class="bulten-tarih">01.08.2026</span>
			<a class="bulten-baslik" href="/x">Hayvansal Üretim İstatistikleri</a>
			<p class="bulten-ozet">yıllık %3,0 arttı</p>
		</div>
	</body></html>`)

	scraper := NewBulletinScraper(bulletinConfig(server.URL), testFetcher(), 0, arbor.NewLogger())
	result, err := scraper.Scrape(context.Background())

	require.NoError(t, err)
	assert.Empty(t, result.Data)
}

func TestBulletinScraper_FallbackEngagesWhenPrimaryRejected(t *testing.T) {
	// Primary transport always fails; the secondary answers with a list
	// containing the target series.
	primary := &fakeBulletinFetcher{err: fmt.Errorf("403 rejected")}
	secondary := &fakeBulletinFetcher{body: []byte(bulletinListHTML)}
	fallback := httpclient.NewFallbackFetcher(primary, secondary, false, arbor.NewLogger())

	scraper := NewBulletinScraper(bulletinConfig("https://data.example.gov.tr/Bulten/GetBultenList"), fallback, 0, arbor.NewLogger())
	result, err := scraper.Scrape(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
	require.Len(t, result.Data, 1)
	assert.InDelta(t, 32.87, result.Data[0].Value, 1e-9)
}

func TestParseBulletinDate_DriftFallsBackToToday(t *testing.T) {
	got := parseBulletinDate("Ağustos 2026")
	now := time.Now()
	assert.Equal(t, now.Year(), got.Year())
	assert.Equal(t, now.Month(), got.Month())
	assert.Equal(t, now.Day(), got.Day())
	assert.Zero(t, got.Hour())
}

func TestExtractAnnualRate_NeverReturnsNaN(t *testing.T) {
	got, ok := ExtractAnnualRate("yıllık %32,87")
	require.True(t, ok)
	assert.False(t, math.IsNaN(got))
}

type fakeBulletinFetcher struct {
	body  []byte
	err   error
	calls int
}

func (f *fakeBulletinFetcher) Do(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &httpclient.Response{StatusCode: http.StatusOK, Body: f.body}, nil
}
