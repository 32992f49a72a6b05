package redisstore

import "fmt"

// Key builders for the layout in spec.md §6.1. Kept in one place so a
// rename never has to hunt through the adapter.
func matchKey(matchID string) string          { return fmt.Sprintf("normal_match:%s", matchID) }
func playersKey(matchID string) string        { return fmt.Sprintf("normal_match:%s:players", matchID) }
func handKey(matchID string, seat int) string { return fmt.Sprintf("game_hands:%s:%d", matchID, seat) }
func handAnalysisKey(matchID string, seat int) string {
	return fmt.Sprintf("game_hand_analysis:%s:%d", matchID, seat)
}
func trickStateKey(matchID string) string { return fmt.Sprintf("game_trick_state:%s", matchID) }
func trickHistoryKey(matchID string, n int) string {
	return fmt.Sprintf("game_trick_history:%s:%d", matchID, n)
}
func crossStateKey(matchID string) string { return fmt.Sprintf("cross_state:%s", matchID) }
func biddingPassesKey(matchID string) string {
	return fmt.Sprintf("normal_match:%s:bidding_passes", matchID)
}

const (
	playerGamesKey = "player_games"
	pinsKey        = "pins"
	usernamesKey   = "usernames"
)

func pubsubChannel(matchID string) string { return fmt.Sprintf("pubsub:game:%s", matchID) }
