package graph

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	types "github.com/yungbote/vitality-backend/internal/domain"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
	"github.com/yungbote/vitality-backend/internal/platform/neo4jdb"
)

var schema = []string{
	`CREATE CONSTRAINT factor_key_unique IF NOT EXISTS FOR (f:Factor) REQUIRE f.key IS UNIQUE`,
	`CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`,
}

// CorrelationGraph mirrors a user's correlations as
// (:User)-[:TRACKS]->(:Factor)-[:CORRELATES_WITH]->(:Factor) for exploration.
type CorrelationGraph struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewCorrelationGraph(client *neo4jdb.Client, baseLog *logger.Logger) *CorrelationGraph {
	return &CorrelationGraph{client: client, log: baseLog.With("graph", "CorrelationGraph")}
}

func (g *CorrelationGraph) Enabled() bool {
	return g != nil && g.client != nil && g.client.Driver != nil
}

// Sync upserts the given correlations. It is a no-op without a client.
func (g *CorrelationGraph) Sync(ctx context.Context, userID uuid.UUID, rows []*types.Correlation) error {
	if !g.Enabled() || userID == uuid.Nil {
		return nil
	}
	relRows := correlationRows(userID, rows, time.Now().UTC())
	if len(relRows) == 0 {
		return nil
	}

	return g.client.Write(ctx, schema, func(tx neo4j.ManagedTransaction) error {
		res, err := tx.Run(ctx, `
UNWIND $rows AS r
MERGE (u:User {id: r.user_id})
MERGE (a:Factor {key: r.primary})
MERGE (b:Factor {key: r.secondary})
MERGE (u)-[:TRACKS]->(a)
MERGE (u)-[:TRACKS]->(b)
MERGE (a)-[c:CORRELATES_WITH {user_id: r.user_id}]->(b)
SET c.id = r.id,
    c.strength = r.strength,
    c.confidence = r.confidence,
    c.significance = r.significance,
    c.direction = r.direction,
    c.data_points = r.data_points,
    c.validation_status = r.validation_status,
    c.computed_at = r.computed_at,
    c.synced_at = r.synced_at
`, map[string]any{"rows": relRows})
		if err != nil {
			return err
		}
		_, err = res.Consume(ctx)
		return err
	})
}

func correlationRows(userID uuid.UUID, rows []*types.Correlation, now time.Time) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		if r == nil || r.UserID != userID {
			continue
		}
		out = append(out, map[string]any{
			"id":                r.ID.String(),
			"user_id":           userID.String(),
			"primary":           r.PrimaryFactor,
			"secondary":         r.SecondaryFactor,
			"strength":          r.Strength,
			"confidence":        r.Confidence,
			"significance":      string(r.Significance),
			"direction":         string(r.Direction),
			"data_points":       int64(r.DataPointCount),
			"validation_status": string(r.ValidationStatus),
			"computed_at":       r.ComputedAt.UTC().Format(time.RFC3339Nano),
			"synced_at":         now.Format(time.RFC3339Nano),
		})
	}
	return out
}
