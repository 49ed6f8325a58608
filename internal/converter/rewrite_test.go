package converter

import (
	"testing"

	"github.com/spf13/afero"
)

func TestRewriteWithoutReferencesIsUntouched(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc := `<img src="hero.webp" alt="hero">`
	if err := afero.WriteFile(fs, "/index.html", []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := RewriteReferences(fs, "/index.html", WebPSubstitutions)
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if res.Count != 0 || res.Backup != "" || !res.Found {
		t.Fatalf("unexpected result: %+v", res)
	}
	got, _ := afero.ReadFile(fs, "/index.html")
	if string(got) != doc {
		t.Fatalf("document changed: %q", got)
	}
	if exists, _ := afero.Exists(fs, "/index.html.bak"); exists {
		t.Fatalf("backup must not be created without changes")
	}
}

func TestRewriteCreatesExactBackup(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc := `<img src="a.jpg"><img src="b.jpeg"><img src="c.PNG"><img src="d.webp"><link href="icon.png">`
	if err := afero.WriteFile(fs, "/index.html", []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := RewriteReferences(fs, "/index.html", WebPSubstitutions)
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if res.Count != 3 {
		t.Fatalf("count = %d, want 3", res.Count)
	}
	if res.Backup != "/index.html.bak" {
		t.Fatalf("backup = %q", res.Backup)
	}

	backup, err := afero.ReadFile(fs, res.Backup)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if string(backup) != doc {
		t.Fatalf("backup differs from original: %q", backup)
	}

	updated, _ := afero.ReadFile(fs, "/index.html")
	want := `<img src="a.webp"><img src="b.webp"><img src="c.PNG"><img src="d.webp"><link href="icon.webp">`
	if string(updated) != want {
		t.Fatalf("updated = %q", updated)
	}
}

func TestRewriteMissingDocument(t *testing.T) {
	res, err := RewriteReferences(afero.NewMemMapFs(), "/missing.html", WebPSubstitutions)
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if res.Found || res.Count != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}
