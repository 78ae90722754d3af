package tablebase

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fgantt/shogi-engine/internal/shogi"
)

// RemoteProber queries an HTTP tablebase service for positions with few
// enough pieces left. No public Shogi tablebase service exists today, so
// the endpoint URL is supplied by the host; the wire format is a plain JSON
// lookup keyed by SFEN. Network access and rate limits make this unsuitable
// for in-search probing without the CachedProber wrapper in front of it.
type RemoteProber struct {
	client    *http.Client
	baseURL   string
	maxPieces int
}

// NewRemoteProber creates a prober against the given endpoint, e.g.
// "https://tb.example.org/probe". maxPieces bounds which positions are
// worth a round trip.
func NewRemoteProber(baseURL string, maxPieces int) *RemoteProber {
	return &RemoteProber{
		client:    &http.Client{Timeout: 5 * time.Second},
		baseURL:   strings.TrimRight(baseURL, "/"),
		maxPieces: maxPieces,
	}
}

// remoteResponse is the service's JSON reply: a verdict category for the
// position plus the same per-move breakdown for root probes.
type remoteResponse struct {
	Category string `json:"category"` // "win", "draw", "loss"
	DTM      int    `json:"dtm"`
	Moves    []struct {
		USI      string `json:"usi"`
		Category string `json:"category"`
		DTM      int    `json:"dtm"`
	} `json:"moves"`
}

func categoryToWDL(category string) WDL {
	switch category {
	case "win":
		return WDLWin
	case "loss":
		return WDLLoss
	default:
		return WDLDraw
	}
}

func (rp *RemoteProber) fetch(pos *shogi.Position) (remoteResponse, bool) {
	var decoded remoteResponse
	u := fmt.Sprintf("%s?sfen=%s", rp.baseURL, url.QueryEscape(pos.SFEN()))
	resp, err := rp.client.Get(u)
	if err != nil {
		return decoded, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decoded, false
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return decoded, false
	}
	return decoded, true
}

func (rp *RemoteProber) Probe(pos *shogi.Position) ProbeResult {
	if CountPieces(pos) > rp.maxPieces {
		return ProbeResult{Found: false}
	}
	decoded, ok := rp.fetch(pos)
	if !ok {
		return ProbeResult{Found: false}
	}
	return ProbeResult{
		Found: true,
		WDL:   categoryToWDL(decoded.Category),
		DTM:   decoded.DTM,
	}
}

func (rp *RemoteProber) ProbeRoot(pos *shogi.Position) RootResult {
	if CountPieces(pos) > rp.maxPieces {
		return RootResult{Found: false}
	}
	decoded, ok := rp.fetch(pos)
	if !ok || len(decoded.Moves) == 0 {
		return RootResult{Found: false}
	}

	best := decoded.Moves[0]
	move, ok := matchUSIMove(pos, best.USI)
	if !ok {
		return RootResult{Found: false}
	}
	return RootResult{
		Found: true,
		Move:  move,
		WDL:   categoryToWDL(best.Category),
		DTM:   best.DTM,
	}
}

func (rp *RemoteProber) MaxPieces() int { return rp.maxPieces }

func (rp *RemoteProber) Available() bool { return rp.baseURL != "" }

// matchUSIMove resolves a USI move token against pos's legal moves; the
// legal-move match guarantees a malformed or stale service reply can never
// inject an illegal move into the search.
func matchUSIMove(pos *shogi.Position, s string) (shogi.Move, bool) {
	legal := shogi.GenerateLegalMoves(pos)
	for i := 0; i < legal.Len(); i++ {
		m := legal.Get(i)
		if m.String() == s {
			return m, true
		}
	}
	return shogi.NoMove, false
}
