package reply

import (
	"context"

	"github.com/ziadkadry99/dennischat/internal/canned"
)

// LocalSource answers from a canned table without touching the network.
type LocalSource struct {
	table *canned.Table
}

// NewLocalSource wraps table. A nil table uses canned.Default.
func NewLocalSource(table *canned.Table) *LocalSource {
	if table == nil {
		table = canned.Default
	}
	return &LocalSource{table: table}
}

func (s *LocalSource) Send(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &Error{Kind: KindNetwork, Err: err}
	}
	return s.table.Reply(req.Text), nil
}
