// Package workspace manages the local directory the git sink clones the
// documentation repository into.
//
// Ephemeral workspaces are created per run (gtmdocs-<timestamp>-<random>)
// and removed on Cleanup. Persistent workspaces live at a fixed path and are
// reused, so later runs pull instead of cloning.
package workspace
