package main

import (
	"testing"

	"github.com/jcz-project/jcz/internal/compressor"
	"github.com/jcz-project/jcz/internal/pipeline"
)

func resetFlags() {
	optFormat = ""
	optDecompress = false
	optLevel = 6
	optTimestamp = 0
	optDest = ""
	optCollectFlat = ""
	optCollectParent = ""
	optEncryptPassword = false
	optEncryptKey = ""
	optDecryptKey = ""
	optRemoveEncrypted = false
	optForce = false
	optQuiet = false
	optDryRun = false
	optLogLevel = ""
}

func TestTimestampModeFromInt(t *testing.T) {
	cases := []struct {
		in   int
		want pipeline.TimestampMode
	}{
		{0, pipeline.TimestampNone},
		{1, pipeline.TimestampDate},
		{2, pipeline.TimestampDateTime},
		{3, pipeline.TimestampNanoseconds},
	}
	for _, c := range cases {
		if got := TimestampModeFromInt(c.in); got != c.want {
			t.Errorf("TimestampModeFromInt(%d) = %v, want %v", c.in, got, c.want)
		}
	}
	if got := TimestampModeFromInt(4); got != -1 {
		t.Errorf("TimestampModeFromInt(4) = %v, want -1", got)
	}
}

func TestBuildCompressionSpecRejectsUnknownFormat(t *testing.T) {
	resetFlags()
	defer resetFlags()
	optFormat = "rar"
	if _, err := buildCompressionSpec(); err == nil {
		t.Error("expected error for unrecognized format")
	}
}

func TestBuildCompressionSpecRejectsConflictingCollectionFlags(t *testing.T) {
	resetFlags()
	defer resetFlags()
	optFormat = "tar"
	optCollectFlat = "bundle"
	optCollectParent = "bundle2"
	if _, err := buildCompressionSpec(); err == nil {
		t.Error("expected error for both -a and -A set")
	}
}

func TestBuildCompressionSpecHappyPath(t *testing.T) {
	resetFlags()
	defer resetFlags()
	optFormat = "gzip"
	optLevel = 9
	optDest = "/tmp/out"

	spec, err := buildCompressionSpec()
	if err != nil {
		t.Fatalf("buildCompressionSpec failed: %v", err)
	}
	if spec.Format != compressor.Gzip {
		t.Errorf("Format = %v, want Gzip", spec.Format)
	}
	if spec.Level != 9 {
		t.Errorf("Level = %d, want 9", spec.Level)
	}
	if spec.MoveTo != "/tmp/out" {
		t.Errorf("MoveTo = %q, want /tmp/out", spec.MoveTo)
	}
	if spec.Collection != nil {
		t.Error("expected nil Collection when neither -a nor -A set")
	}
}

func TestBuildCompressionSpecCollectFlat(t *testing.T) {
	resetFlags()
	defer resetFlags()
	optFormat = "tar"
	optCollectFlat = "bundle"

	spec, err := buildCompressionSpec()
	if err != nil {
		t.Fatalf("buildCompressionSpec failed: %v", err)
	}
	if spec.Collection == nil || spec.Collection.Name != "bundle" || spec.Collection.Mode != pipeline.CollectionFlat {
		t.Errorf("unexpected collection spec: %+v", spec.Collection)
	}
}

func TestRunRootRejectsConflictingModeFlags(t *testing.T) {
	resetFlags()
	defer resetFlags()
	optFormat = "gzip"
	optDecompress = true
	if err := runRoot(rootCmd, []string{"a.txt"}); err == nil {
		t.Error("expected error when both -c and -d are set")
	}
}

func TestRunRootRequiresAMode(t *testing.T) {
	resetFlags()
	defer resetFlags()
	if err := runRoot(rootCmd, []string{"a.txt"}); err == nil {
		t.Error("expected error when neither -c nor -d is set")
	}
}

func TestRunRootRequiresInputs(t *testing.T) {
	resetFlags()
	defer resetFlags()
	optFormat = "gzip"
	if err := runRoot(rootCmd, nil); err == nil {
		t.Error("expected error for no input files")
	}
}

func TestReporterQuietPrintsAndCancel(t *testing.T) {
	r := NewReporter(true)
	r.PrintSuccess("should not panic")
	r.PrintError("should not panic either")
	if r.IsCancelled() {
		t.Error("should not be cancelled initially")
	}
	r.Cancel()
	if !r.IsCancelled() {
		t.Error("expected cancelled after Cancel()")
	}
}
