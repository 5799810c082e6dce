package model

// ProgressState is a snapshot of the process-wide migration counters.
type ProgressState struct {
	FilesDone    int
	FilesTotal   int
	ItemsDone    int
	ItemsTotal   int
	ItemsChanged int
	LastFile     string
	LastItem     string
}
