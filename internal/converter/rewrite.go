package converter

import (
	"os"
	"strings"

	"github.com/spf13/afero"

	"assetkit/internal/fsx"
)

type Substitution struct {
	Old string
	New string
}

// WebPSubstitutions is applied in order, so ".jpg" is replaced before ".jpeg".
var WebPSubstitutions = []Substitution{
	{Old: ".jpg", New: TargetExt},
	{Old: ".jpeg", New: TargetExt},
	{Old: ".png", New: TargetExt},
}

type RewriteResult struct {
	Path   string
	Found  bool
	Count  int
	Backup string
}

// RewriteReferences performs a blind literal replace over the whole document.
// Count is the growth in occurrences of the replacement strings, so text that
// already contained them is not double counted; it can under-report against
// the number of substitutions actually made. The document and its .bak copy
// are only written when Count is positive.
func RewriteReferences(fs afero.Fs, path string, subs []Substitution) (RewriteResult, error) {
	res := RewriteResult{Path: path}

	info, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return res, nil
		}
		return res, err
	}
	res.Found = true

	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return res, err
	}
	original := string(raw)
	updated := original
	for _, sub := range subs {
		updated = strings.ReplaceAll(updated, sub.Old, sub.New)
	}

	for _, target := range replacementTargets(subs) {
		res.Count += strings.Count(updated, target) - strings.Count(original, target)
	}
	if res.Count <= 0 {
		return res, nil
	}

	backup := path + ".bak"
	if err := afero.WriteFile(fs, backup, raw, info.Mode().Perm()); err != nil {
		return res, err
	}
	res.Backup = backup

	if err := fsx.WriteFile(fs, path, []byte(updated), info.Mode().Perm()); err != nil {
		return res, err
	}
	return res, nil
}

func replacementTargets(subs []Substitution) []string {
	seen := make(map[string]bool)
	var out []string
	for _, sub := range subs {
		if sub.New == "" || seen[sub.New] {
			continue
		}
		seen[sub.New] = true
		out = append(out, sub.New)
	}
	return out
}
