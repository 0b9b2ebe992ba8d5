package core

import "github.com/rs/zerolog/log"

// PublishResult reports delivery stats/backpressure to the orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []*Session
}

// Broadcast offers f to every member without blocking. A failing
// recipient never stops delivery to the rest.
func Broadcast(members []*Session, f Frame) PublishResult {
	res := PublishResult{}
	for _, m := range members {
		if err := m.Signal().TrySend(f); err != nil {
			log.Debug().Err(err).Str("module", "core.broadcast").Str("sid", string(m.ID())).Msg("recipient unavailable")
			res.Dropped = append(res.Dropped, m)
			continue
		}
		res.SendTo++
	}
	return res
}
