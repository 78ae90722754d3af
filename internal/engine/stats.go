package engine

// SearchStats are the opt-in node/cutoff counters for a search. Every
// record site branches on Enabled first so a disabled SearchStats compiles
// down to a single bool check per call site rather than an allocation.
type SearchStats struct {
	Enabled bool

	Nodes            uint64
	QNodes           uint64
	BetaCutoffs      uint64
	FirstMoveCutoffs uint64 // cutoffs on the first move tried, a move-ordering quality signal
	NullMoveTries    uint64
	NullMoveCuts     uint64
	LMRTries         uint64
	LMRResearches    uint64
	TTHits           uint64
	TTProbes         uint64
}

func (s *SearchStats) recordNode() {
	if s == nil || !s.Enabled {
		return
	}
	s.Nodes++
}

func (s *SearchStats) recordQNode() {
	if s == nil || !s.Enabled {
		return
	}
	s.QNodes++
}

func (s *SearchStats) recordBetaCutoff(firstMove bool) {
	if s == nil || !s.Enabled {
		return
	}
	s.BetaCutoffs++
	if firstMove {
		s.FirstMoveCutoffs++
	}
}

func (s *SearchStats) recordNullMoveTry() {
	if s == nil || !s.Enabled {
		return
	}
	s.NullMoveTries++
}

func (s *SearchStats) recordNullMoveCut() {
	if s == nil || !s.Enabled {
		return
	}
	s.NullMoveCuts++
}

func (s *SearchStats) recordLMRTry() {
	if s == nil || !s.Enabled {
		return
	}
	s.LMRTries++
}

func (s *SearchStats) recordLMRResearch() {
	if s == nil || !s.Enabled {
		return
	}
	s.LMRResearches++
}

func (s *SearchStats) recordTTProbe(hit bool) {
	if s == nil || !s.Enabled {
		return
	}
	s.TTProbes++
	if hit {
		s.TTHits++
	}
}

// LMRResearchRate is the fraction of reduced searches that needed a
// full-depth re-search, reported in the per-iteration telemetry.
func (s *SearchStats) LMRResearchRate() float64 {
	if s == nil || s.LMRTries == 0 {
		return 0
	}
	return float64(s.LMRResearches) / float64(s.LMRTries)
}

func (s *SearchStats) MoveOrderingQuality() float64 {
	if s == nil || s.BetaCutoffs == 0 {
		return 0
	}
	return float64(s.FirstMoveCutoffs) / float64(s.BetaCutoffs)
}

func (s *SearchStats) Reset() {
	if s == nil {
		return
	}
	*s = SearchStats{Enabled: s.Enabled}
}

// InfoEvent is an opt-in structured telemetry snapshot, emitted once per
// iterative-deepening iteration. Not a stability surface: field names and
// presence may change between engine versions.
type InfoEvent struct {
	Depth            int
	SelDepth         int
	Score            int32
	Mate             int // non-zero: plies to mate (signed), 0 if not a mate score
	Nodes            uint64
	NPS              uint64
	TimeMS           int64
	HashFull         int
	TTHitRate        float64
	LMRResearchRate  float64
	PV               []string
}
