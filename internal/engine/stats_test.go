package engine

import "testing"

func TestSearchStatsNilSafe(t *testing.T) {
	var s *SearchStats
	s.recordNode()
	s.recordQNode()
	s.recordBetaCutoff(true)
	s.recordNullMoveTry()
	s.recordNullMoveCut()
	s.recordLMRTry()
	s.recordLMRResearch()
	s.recordTTProbe(true)
	s.Reset()

	if got := s.LMRResearchRate(); got != 0 {
		t.Errorf("nil stats LMRResearchRate() = %v, want 0", got)
	}
	if got := s.MoveOrderingQuality(); got != 0 {
		t.Errorf("nil stats MoveOrderingQuality() = %v, want 0", got)
	}
}

func TestSearchStatsDisabledDoesNotRecord(t *testing.T) {
	s := &SearchStats{Enabled: false}
	s.recordNode()
	s.recordBetaCutoff(true)
	if s.Nodes != 0 || s.BetaCutoffs != 0 {
		t.Error("disabled stats should not record any counters")
	}
}

func TestSearchStatsEnabledRecords(t *testing.T) {
	s := &SearchStats{Enabled: true}
	s.recordNode()
	s.recordNode()
	s.recordBetaCutoff(true)
	s.recordBetaCutoff(false)
	s.recordLMRTry()
	s.recordLMRTry()
	s.recordLMRResearch()

	if s.Nodes != 2 {
		t.Errorf("Nodes = %d, want 2", s.Nodes)
	}
	if s.BetaCutoffs != 2 || s.FirstMoveCutoffs != 1 {
		t.Errorf("BetaCutoffs=%d FirstMoveCutoffs=%d, want 2 and 1", s.BetaCutoffs, s.FirstMoveCutoffs)
	}
	if rate := s.LMRResearchRate(); rate != 0.5 {
		t.Errorf("LMRResearchRate() = %v, want 0.5", rate)
	}
	if q := s.MoveOrderingQuality(); q != 0.5 {
		t.Errorf("MoveOrderingQuality() = %v, want 0.5", q)
	}
}

func TestSearchStatsResetPreservesEnabled(t *testing.T) {
	s := &SearchStats{Enabled: true}
	s.recordNode()
	s.Reset()
	if !s.Enabled {
		t.Error("Reset should preserve the Enabled flag")
	}
	if s.Nodes != 0 {
		t.Errorf("Nodes after Reset = %d, want 0", s.Nodes)
	}
}
