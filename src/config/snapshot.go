package config

import "os"

const defaultSnapshotEndpoint = "https://hub.snapshot.org/graphql"

// SnapshotEndpoint returns the Snapshot hub GraphQL endpoint, overridable for
// self-hosted hubs or tests.
func SnapshotEndpoint() string {
	if v := os.Getenv("SNAPSHOT_ENDPOINT"); v != "" {
		return v
	}
	return defaultSnapshotEndpoint
}
