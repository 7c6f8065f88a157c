package entity

// DownloadCounter is the number of finished downloads for one
// provider/artifact/type combination.
type DownloadCounter struct {
	Provider string `yaml:"provider" json:"provider"`
	Artifact string `yaml:"artifact" json:"artifact"`
	Type     string `yaml:"type" json:"type"`
	Counter  int64  `yaml:"counter" json:"counter"`
}

// SweepResult describes one pass of the temp dir janitor.
type SweepResult struct {
	Scanned int `json:"scanned"`
	Removed int `json:"removed"`
	Failed  int `json:"failed"`
}
