package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"

	"gamewatch/pkg/models"
)

// HLTBSource queries HowLongToBeat's search endpoint and picks the candidate
// whose name is most similar to the requested title. The reported estimate
// falls back main story -> main+extra -> completionist.
type HLTBSource struct {
	Client  *http.Client
	BaseURL string
}

func NewHLTBSource(client *http.Client) *HLTBSource {
	return &HLTBSource{
		Client:  client,
		BaseURL: "https://howlongtobeat.com",
	}
}

func (h *HLTBSource) Name() string { return SourceHLTB }

type hltbSearchRequest struct {
	SearchType  string   `json:"searchType"`
	SearchTerms []string `json:"searchTerms"`
	SearchPage  int      `json:"searchPage"`
	Size        int      `json:"size"`
}

type hltbSearchResponse struct {
	Data []hltbGame `json:"data"`
}

type hltbGame struct {
	GameName string `json:"game_name"`
	CompMain int64  `json:"comp_main"` // seconds
	CompPlus int64  `json:"comp_plus"`
	Comp100  int64  `json:"comp_100"`
}

func (h *HLTBSource) FetchPlaytime(ctx context.Context, title string) (models.Playtime, error) {
	payload, err := json.Marshal(hltbSearchRequest{
		SearchType:  "games",
		SearchTerms: strings.Fields(title),
		SearchPage:  1,
		Size:        20,
	})
	if err != nil {
		return models.UnknownPlaytime(), fmt.Errorf("marshal search: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.BaseURL+"/api/search", bytes.NewReader(payload))
	if err != nil {
		return models.UnknownPlaytime(), fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// the endpoint rejects requests without a site referer
	req.Header.Set("Referer", h.BaseURL+"/")

	resp, err := h.Client.Do(req)
	if err != nil {
		return models.UnknownPlaytime(), fmt.Errorf("search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.UnknownPlaytime(), fmt.Errorf("search: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.UnknownPlaytime(), fmt.Errorf("read body: %w", err)
	}

	var result hltbSearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return models.UnknownPlaytime(), fmt.Errorf("decode search: %w", err)
	}
	if len(result.Data) == 0 {
		return models.UnknownPlaytime(), nil
	}

	best := result.Data[0]
	bestScore := titleSimilarity(title, best.GameName)
	for _, g := range result.Data[1:] {
		if score := titleSimilarity(title, g.GameName); score > bestScore {
			best, bestScore = g, score
		}
	}

	for _, secs := range []int64{best.CompMain, best.CompPlus, best.Comp100} {
		if secs > 0 {
			return models.Hours(roundHalf(float64(secs) / 3600)), nil
		}
	}
	return models.UnknownPlaytime(), nil
}

// roundHalf rounds to the nearest half hour, matching how HLTB itself
// displays estimates.
func roundHalf(h float64) float64 {
	return math.Round(h*2) / 2
}

// titleSimilarity is the Sørensen–Dice coefficient over lowercase character
// bigrams: cheap, order-insensitive enough for storefront title noise, and
// 1.0 for an exact match.
func titleSimilarity(a, b string) float64 {
	ab := bigrams(strings.ToLower(a))
	bb := bigrams(strings.ToLower(b))
	if len(ab) == 0 || len(bb) == 0 {
		if strings.EqualFold(a, b) {
			return 1
		}
		return 0
	}

	var shared int
	for bg, n := range ab {
		if m, ok := bb[bg]; ok {
			shared += min(n, m)
		}
	}
	var total int
	for _, n := range ab {
		total += n
	}
	for _, n := range bb {
		total += n
	}
	return 2 * float64(shared) / float64(total)
}

func bigrams(s string) map[string]int {
	runes := []rune(s)
	out := make(map[string]int, len(runes))
	for i := 0; i+1 < len(runes); i++ {
		out[string(runes[i:i+2])]++
	}
	return out
}
