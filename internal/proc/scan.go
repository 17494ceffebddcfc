package proc

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrScanFailed marks a failure of process enumeration itself. The pipeline
// must abort on it: acting on a partial or unknown candidate list is worse
// than not acting at all.
var ErrScanFailed = errors.New("process scan failed")

// CoreExclusions are never offered for closure, regardless of user
// configuration. Closing the shell, a command interpreter, or the terminal
// host would take down the tool's own execution environment.
var CoreExclusions = []string{
	"explorer.exe",
	"cmd.exe",
	"powershell.exe",
	"pwsh.exe",
	"conhost.exe",
	"windowsterminal.exe",
	"openconsole.exe",
}

// KnownApps are applications that frequently run without a visible top-level
// window but still hold user state, so they are offered for closure even when
// the window heuristic misses them.
var KnownApps = []string{
	"chrome.exe",
	"msedge.exe",
	"firefox.exe",
	"brave.exe",
	"opera.exe",
	"code.exe",
	"devenv.exe",
	"idea64.exe",
	"pycharm64.exe",
	"notepad++.exe",
	"winword.exe",
	"excel.exe",
	"powerpnt.exe",
	"outlook.exe",
	"onenote.exe",
	"teams.exe",
	"slack.exe",
	"discord.exe",
	"telegram.exe",
	"zoom.exe",
	"spotify.exe",
	"steam.exe",
	"thunderbird.exe",
	"obsidian.exe",
}

var (
	coreExcluded = toSet(CoreExclusions)
	knownApps    = toSet(KnownApps)
)

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return set
}

// ExclusionList is a set of lowercase process names that are skipped during
// the scan. NewExclusionList always unions the hard-coded core set in, so a
// user configuration cannot remove it.
type ExclusionList map[string]struct{}

// NewExclusionList builds an exclusion list from user-configured names.
func NewExclusionList(names []string) ExclusionList {
	list := make(ExclusionList, len(names)+len(coreExcluded))
	for n := range coreExcluded {
		list[n] = struct{}{}
	}
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			list[n] = struct{}{}
		}
	}
	return list
}

// Contains reports whether name (any case) is excluded.
func (l ExclusionList) Contains(name string) bool {
	_, ok := l[strings.ToLower(name)]
	return ok
}

// Scan produces the ordered list of processes to close. A process is a
// candidate when it is neither protected nor excluded and either owns a
// visible top-level window in the caller's session or matches the known
// application list. The result is deduplicated and deterministically ordered
// (descending resident memory, then name, then PID).
func Scan(snap Snapshotter, protected ProtectedSet, excluded ExclusionList, session uint32) ([]Record, error) {
	records, err := snap.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScanFailed, err)
	}

	seen := make(map[int32]struct{}, len(records))
	candidates := make([]Record, 0, len(records))
	for _, rec := range records {
		if protected.Contains(rec.PID) {
			continue
		}
		name := strings.ToLower(rec.Name)
		if _, ok := coreExcluded[name]; ok {
			continue
		}
		if excluded.Contains(name) {
			continue
		}

		windowed := rec.HasWindow && rec.SessionID == session
		_, known := knownApps[name]
		if !windowed && !known {
			continue
		}
		if _, dup := seen[rec.PID]; dup {
			continue
		}
		seen[rec.PID] = struct{}{}
		candidates = append(candidates, rec)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].RSS != candidates[j].RSS {
			return candidates[i].RSS > candidates[j].RSS
		}
		if candidates[i].Name != candidates[j].Name {
			return candidates[i].Name < candidates[j].Name
		}
		return candidates[i].PID < candidates[j].PID
	})
	return candidates, nil
}
