package aggregator

import "github.com/pable/academystats/internal/model"

// ClassifyScore builds the score record for one final seat. Seats left
// dead or open keep only finished=0 and their rank; the rank still counts
// for the last player seen in that slot.
func ClassifyScore(info model.PlayerInfo) model.ScoreRecord {
	rec := model.ScoreRecord{Rank: info.FinishRank}
	if info.Username == model.OccupantDead || info.Username == model.OccupantOpen {
		return rec
	}
	s := info.Score
	rec.Finished = 1
	rec.CapitalShips = copyPtr(s.CapitalShips)
	rec.Freighters = copyPtr(s.Freighters)
	rec.Planets = copyPtr(s.Planets)
	rec.Starbases = copyPtr(s.Starbases)
	rec.MilitaryScore = copyPtr(s.MilitaryScore)
	rec.Percent = copyPtr(s.Percent)
	return rec
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
