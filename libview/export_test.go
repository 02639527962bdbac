package libview

import "compgraph/libscn"

var PollWatcher = pollWatcher

func (s *Stage) IsParticle(f *libscn.Figure) bool {
	return s.particles[f]
}
