package leaderboard

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lixenwraith/stacker/network"
)

// HTTPStore reads the leaderboard service over its JSON API
// Rows are decoded loosely: absent or mistyped numbers read as zero, absent strings as empty
type HTTPStore struct {
	base   string
	client *network.Client
}

// NewHTTPStore creates a store rooted at base
func NewHTTPStore(base string, client *network.Client) *HTTPStore {
	return &HTTPStore{
		base:   strings.TrimRight(base, "/"),
		client: client,
	}
}

// Feed implements Store
func (s *HTTPStore) Feed(ctx context.Context, game string) ([]FeedItem, error) {
	rows, err := s.rows(ctx, "feed", url.Values{"game": {game}})
	if err != nil {
		return nil, err
	}
	items := make([]FeedItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, FeedItem{
			Title:       str(r, "title"),
			CashoutTime: int64(num(r, "cashout_time")),
		})
	}
	return items, nil
}

// HighScores implements Store
func (s *HTTPStore) HighScores(ctx context.Context, game string, season int) ([]HighScore, error) {
	rows, err := s.rows(ctx, "highscores", url.Values{"game": {game}, "season": {strconv.Itoa(season)}})
	if err != nil {
		return nil, err
	}
	return scoreRows(rows), nil
}

// History implements Store
func (s *HTTPStore) History(ctx context.Context, game, player string) ([]HighScore, error) {
	rows, err := s.rows(ctx, "history", url.Values{"game": {game}, "player": {player}})
	if err != nil {
		return nil, err
	}
	return scoreRows(rows), nil
}

// Winners implements Store
func (s *HTTPStore) Winners(ctx context.Context, game string) ([]Winner, error) {
	rows, err := s.rows(ctx, "winners", url.Values{"game": {game}})
	if err != nil {
		return nil, err
	}
	winners := make([]Winner, 0, len(rows))
	for _, r := range rows {
		winners = append(winners, Winner{
			Season: int(num(r, "season")),
			Player: playerName(r),
			Score:  int(num(r, "score")),
		})
	}
	return winners, nil
}

// Stats implements Store
func (s *HTTPStore) Stats(ctx context.Context, game string, season int) (GameStats, error) {
	rows, err := s.rows(ctx, "stats", url.Values{"game": {game}, "season": {strconv.Itoa(season)}})
	if err != nil {
		return GameStats{}, err
	}
	if len(rows) == 0 {
		return GameStats{}, nil
	}
	r := rows[0]
	return GameStats{
		TotalParticipants: int(num(r, "total_participants")),
		ActivePlayers24h:  int(num(r, "active_players_24h")),
		TotalPlays:        int(num(r, "total_plays")),
		TotalAltitude:     int(num(r, "total_altitude")),
	}, nil
}

// rows fetches path and returns its records
// Accepts a bare array, an object wrapping an array under data, items or rows, or a single object
func (s *HTTPStore) rows(ctx context.Context, path string, q url.Values) ([]*structpb.Struct, error) {
	body, err := s.client.GetJSON(ctx, s.base+"/"+path+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	v := &structpb.Value{}
	if err := (protojson.UnmarshalOptions{DiscardUnknown: true}).Unmarshal(body, v); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", path, err)
	}
	return records(v), nil
}

func records(v *structpb.Value) []*structpb.Struct {
	switch k := v.GetKind().(type) {
	case *structpb.Value_ListValue:
		out := make([]*structpb.Struct, 0, len(k.ListValue.GetValues()))
		for _, item := range k.ListValue.GetValues() {
			if st := item.GetStructValue(); st != nil {
				out = append(out, st)
			}
		}
		return out
	case *structpb.Value_StructValue:
		for _, wrap := range []string{"data", "items", "rows"} {
			if inner, ok := k.StructValue.GetFields()[wrap]; ok {
				return records(inner)
			}
		}
		return []*structpb.Struct{k.StructValue}
	default:
		return nil
	}
}

func scoreRows(rows []*structpb.Struct) []HighScore {
	out := make([]HighScore, 0, len(rows))
	for _, r := range rows {
		out = append(out, HighScore{
			Player:    playerName(r),
			Score:     int(num(r, "score")),
			Combos:    int(num(r, "combos")),
			Season:    int(num(r, "season")),
			CreatedAt: timestamp(r, "created_at"),
		})
	}
	return out
}

// playerName reads the display identity, preferring username over the raw player id
func playerName(r *structpb.Struct) string {
	if name := str(r, "username"); name != "" {
		return name
	}
	return str(r, "player")
}

// num reads a numeric field; numeric strings are accepted, anything else is zero
func num(r *structpb.Struct, name string) float64 {
	v, ok := r.GetFields()[name]
	if !ok {
		return 0
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		return k.NumberValue
	case *structpb.Value_StringValue:
		f, err := strconv.ParseFloat(strings.TrimSpace(k.StringValue), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func str(r *structpb.Struct, name string) string {
	v, ok := r.GetFields()[name]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}

// timestamp reads an RFC 3339 string or a unix time in seconds or milliseconds
func timestamp(r *structpb.Struct, name string) time.Time {
	v, ok := r.GetFields()[name]
	if !ok {
		return time.Time{}
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		t, err := time.Parse(time.RFC3339Nano, k.StringValue)
		if err != nil {
			return time.Time{}
		}
		return t.UTC()
	case *structpb.Value_NumberValue:
		n := int64(k.NumberValue)
		if n <= 0 {
			return time.Time{}
		}
		if n > 1e12 {
			return time.UnixMilli(n).UTC()
		}
		return time.Unix(n, 0).UTC()
	default:
		return time.Time{}
	}
}
