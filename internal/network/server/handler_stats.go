package server

import (
	"context"
	"time"

	"github.com/podkidnoy/durak-server/internal/logger"
	"github.com/podkidnoy/durak-server/internal/network/protocol"
)

const statsTimeout = 3 * time.Second

func (h *Handler) handleStatsGet(client *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
	defer cancel()

	stats, err := h.server.leaderboard.GetPlayerStats(ctx, client.ID)
	if err != nil {
		logger.Log.Errorf("stats lookup for %s: %v", client.ID, err)
		client.SendMessage(protocol.NewErrorMessageWithText(protocol.CodeNotFound, "stats unavailable"))
		return
	}

	payload := protocol.PlayerStatsPayload{
		PlayerID:   client.ID,
		PlayerName: client.Name,
	}
	if stats != nil {
		payload.PlayerName = stats.PlayerName
		payload.TotalGames = stats.TotalGames
		payload.Escapes = stats.Escapes
		payload.DurakCount = stats.DurakCount
		payload.Score = stats.Score
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgStatsGet, payload))
}

func (h *Handler) handleLeaderboard(client *Client, msg *protocol.Message) {
	limit := 10
	if payload, err := protocol.ParsePayload[protocol.LeaderboardRequestPayload](msg); err == nil && payload.Limit > 0 {
		limit = min(payload.Limit, 100)
	}

	ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
	defer cancel()

	entries, err := h.server.leaderboard.GetLeaderboard(ctx, limit)
	if err != nil {
		logger.Log.Errorf("leaderboard lookup: %v", err)
		client.SendMessage(protocol.NewErrorMessageWithText(protocol.CodeNotFound, "leaderboard unavailable"))
		return
	}

	out := make([]protocol.LeaderboardEntryPayload, len(entries))
	for i, e := range entries {
		out[i] = protocol.LeaderboardEntryPayload{
			Rank:       e.Rank,
			PlayerID:   e.PlayerID,
			PlayerName: e.PlayerName,
			Score:      e.Score,
			Escapes:    e.Escapes,
			EscapeRate: e.EscapeRate,
		}
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgStatsLeaderboard, protocol.LeaderboardPayload{
		Entries: out,
	}))
}
