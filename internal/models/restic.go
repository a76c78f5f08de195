package models

// Command describes one invocation of the external backup binary.
type Command struct {
	Name string
	Args []string
	Dir  string   // working directory, empty for the current one
	Env  []string // KEY=VALUE pairs appended to the process environment
}

// CommandResult holds what is left of a finished command once its stdout
// has been streamed.
type CommandResult struct {
	Stderr   string
	ExitCode int
}

// SnapshotPair identifies the two most recent snapshots of a repository by
// their short IDs.
type SnapshotPair struct {
	Previous string
	Latest   string
}
