package simulation

import (
	"github.com/vsinha/invsim/pkg/domain/entities"
	"github.com/vsinha/invsim/pkg/infrastructure/events"
)

// updateDisruptions advances every disruption process once, in ascending node
// order, so the state seen during the period is the state as of its start
func (s *Simulator) updateDisruptions(t int) error {
	for _, id := range s.net.NodeIDs() {
		node := s.node(id)
		d := node.Disruption
		if d == nil {
			continue
		}

		wasUp := d.IsUp()
		if err := d.UpdateStatus(t, s.rng); err != nil {
			return &entities.ConfigError{NodeID: id, Attribute: "disruption_process", Err: err}
		}
		node.History[t].Disrupted = !d.IsUp()

		switch {
		case wasUp && !d.IsUp():
			s.logger.Debug("disruption started", "period", t, "node", id, "type", d.Type)
			s.publish(events.DisruptionStartedEvent, events.DisruptionStarted{Period: t, NodeID: id, Type: d.Type})
		case !wasUp && d.IsUp():
			s.logger.Debug("disruption ended", "period", t, "node", id, "type", d.Type)
			s.publish(events.DisruptionEndedEvent, events.DisruptionEnded{Period: t, NodeID: id, Type: d.Type})
		}

		if !d.IsUp() && s.metrics != nil {
			s.metrics.RecordDisruption(int(id), string(d.Type))
		}
	}
	return nil
}
