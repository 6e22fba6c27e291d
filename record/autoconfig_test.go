package record

import "testing"

type probeSource struct {
	first  string
	seeked bool
}

func (p *probeSource) ReadLine() (string, bool, error) {
	return p.first, true, nil
}

func (p *probeSource) SeekStart() error {
	p.seeked = true
	return nil
}

func TestAutoConfigureFullColumns(t *testing.T) {
	p := &probeSource{first: "2000-01-01 00:00:00,000 FlowID ERROR Thread C.m(C.java:23): hello"}
	cfg, err := AutoConfigure(p)
	if err != nil {
		t.Fatalf("AutoConfigure: %v", err)
	}
	if !p.seeked {
		t.Errorf("expected AutoConfigure to restore position to start")
	}
	if cfg.ColumnCount != 5 || cfg.IndexFlowID != 0 || cfg.IndexLevel != 1 || cfg.IndexThread != 2 || cfg.IndexLocation != 3 || cfg.IndexMessage != 4 {
		t.Errorf("got %+v", cfg)
	}
}

func TestAutoConfigureNoFlowID(t *testing.T) {
	p := &probeSource{first: "2000-01-01 00:00:00,000 ERROR Thread C.m(C.java:23): hello"}
	cfg, err := AutoConfigure(p)
	if err != nil {
		t.Fatalf("AutoConfigure: %v", err)
	}
	if cfg.ColumnCount != 4 || cfg.IndexLevel != 0 || cfg.IndexThread != 1 || cfg.IndexLocation != 2 || cfg.IndexMessage != 3 {
		t.Errorf("got %+v", cfg)
	}
}

func TestAutoConfigureLevelOnly(t *testing.T) {
	p := &probeSource{first: "2000-01-01 00:00:00,000 ERROR C.m(C.java:23): hello"}
	cfg, err := AutoConfigure(p)
	if err != nil {
		t.Fatalf("AutoConfigure: %v", err)
	}
	if cfg.ColumnCount != 3 || cfg.IndexLevel != 0 || cfg.IndexLocation != 1 || cfg.IndexMessage != 2 {
		t.Errorf("got %+v", cfg)
	}
}

func TestAutoConfigureNoLocationFails(t *testing.T) {
	p := &probeSource{first: "2000-01-01 00:00:00,000 just plain text with no location"}
	if _, err := AutoConfigure(p); err == nil {
		t.Fatalf("expected failure when no code-location column is found")
	}
}
