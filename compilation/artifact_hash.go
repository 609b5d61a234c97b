package compilation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/crytic/selectors/compilation/types"
	"github.com/crytic/selectors/logging"
	"github.com/crytic/selectors/logging/colors"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// ArtifactFingerprint describes the hash of a set of artifacts along with when it was computed. Fingerprints are only
// held in memory so that repeated exports within one process can detect unchanged artifacts.
type ArtifactFingerprint struct {
	// Hash is the SHA-256 hash over every artifact name and file content.
	Hash string
	// Timestamp is when the hash was computed.
	Timestamp time.Time
}

// ComputeArtifactHash computes a SHA-256 hash over the names and raw contents of every artifact in the store. Names are
// sorted before hashing so discovery order does not affect the result.
func ComputeArtifactHash(store *types.ArtifactStore) (string, error) {
	hasher := sha256.New()
	if store == nil {
		return hex.EncodeToString(hasher.Sum(nil)), nil
	}

	names, err := store.FullyQualifiedNames()
	if err != nil {
		return "", err
	}
	slices.Sort(names)

	for _, name := range names {
		path, _ := store.Path(name)
		data, err := os.ReadFile(path)
		if err != nil {
			return "", errors.WithStack(err)
		}
		hasher.Write([]byte(name))
		hasher.Write(data)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// NotifyArtifactHashStatus compares the artifacts in the store against a previous fingerprint and logs whether they
// changed. It returns the new fingerprint and whether the artifacts differ from the previous ones. A nil previous
// fingerprint always counts as changed.
func NotifyArtifactHashStatus(previous *ArtifactFingerprint, store *types.ArtifactStore, logger *logging.Logger) (*ArtifactFingerprint, bool, error) {
	currentHash, err := ComputeArtifactHash(store)
	if err != nil {
		return nil, false, err
	}
	current := &ArtifactFingerprint{Hash: currentHash, Timestamp: time.Now()}

	if previous == nil || previous.Hash != currentHash {
		logger.Info(
			colors.Bold, "artifacts: ", colors.Reset,
			"found a ", colors.GreenBold, "new", colors.Reset, " set of build artifacts",
		)
		return current, true, nil
	}

	logger.Info(
		colors.Bold, "artifacts: ", colors.Reset,
		"build artifacts are the ", colors.YellowBold, "same", colors.Reset,
		" as the last export (", formatDuration(time.Since(previous.Timestamp)), " ago)",
	)
	return previous, false, nil
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		minutes := int(d.Minutes())
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	if d < 24*time.Hour {
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	days := int(d.Hours() / 24)
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
