package tinyc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runInDir(t *testing.T, dir string, stdin string, source string) runResult {
	t.Helper()
	host, out := testHost(t, stdin)
	host.FS = OSFileSystem{Root: dir}
	return runWithHost(t, MustNewEngine(Config{}), source, host, out)
}

func TestSprintfPercentEscape(t *testing.T) {
	res := mustRun(t, `printf("%s", sprintf("Progress: %d%%", 50));`)
	if res.stdout != "Progress: 50%" {
		t.Fatalf("unexpected output %q", res.stdout)
	}
}

func TestFormatDisplayForms(t *testing.T) {
	res := mustRun(t, `
int f() { return 0; }
printf("[%s|%s|%s|%s|%s|%s|%s]", 12, "txt", true, null, f, printf, stdout);
`)
	want := "[12|txt|true|null|<function f>|<builtin printf>|<file stdout>]"
	if res.stdout != want {
		t.Fatalf("unexpected output %q want %q", res.stdout, want)
	}
}

func TestFormatErrors(t *testing.T) {
	cases := []struct {
		source string
		kind   ErrorKind
		want   string
	}{
		{`sprintf("%d", "x");`, ErrTypeMismatch, "%d expects int, got string"},
		{`sprintf("%d %d", 1);`, ErrArityMismatch, "missing argument for %d"},
		{`sprintf("%x", 1);`, ErrInvalidDirective, "unknown directive %x"},
		{`sprintf("50%");`, ErrInvalidDirective, "lone %"},
		{`printf(5);`, ErrTypeMismatch, "printf argument 1 must be string, got int"},
		{`printf();`, ErrArityMismatch, "printf expects at least 1 arguments, got 0"},
	}
	for _, tc := range cases {
		res := runSource(t, tc.source)
		requireKind(t, res.err, tc.kind, tc.want)
	}

	res := mustRun(t, `printf("%d", 1, 2, 3);`)
	if res.stdout != "1" {
		t.Fatalf("expected surplus arguments to be ignored, got %q", res.stdout)
	}
}

func TestFputsRewindFgetsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	res := runInDir(t, dir, "", `
int f = fopen("notes.txt", "w");
fputs("first line\nsecond line\n", f);
fputc("!", f);
putc(10, f);
rewind(f);
printf("%s", fgets(f));
printf("%s", fgets(f));
printf("%s", fgets(f));
printf("%s", fgets(f));
fclose(f);
`)
	if res.err != nil {
		t.Fatalf("run: %v", res.err)
	}
	if res.stdout != "first line\nsecond line\n!\nnull" {
		t.Fatalf("unexpected output %q", res.stdout)
	}
	data, err := os.ReadFile(filepath.Join(dir, "notes.txt"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "first line\nsecond line\n!\n" {
		t.Fatalf("unexpected file contents %q", data)
	}
}

func TestFeofBecomesTrueOnlyAfterReadPastEnd(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ab.txt"), []byte("ab"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	res := runInDir(t, dir, "", `
int f = fopen("ab.txt", "r");
printf("%s ", feof(f));
printf("%s ", fgetc(f));
printf("%s ", getc(f));
printf("%s ", feof(f));
printf("%s ", fgetc(f));
printf("%s ", feof(f));
printf("%s", ferror(f));
fclose(f);
`)
	if res.err != nil {
		t.Fatalf("run: %v", res.err)
	}
	if res.stdout != "false a b false null true false" {
		t.Fatalf("unexpected output %q", res.stdout)
	}
}

func TestFseekEndAndFtellReportLength(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "data.bin"), []byte("0123456789abc"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	res := runInDir(t, dir, "", `
int f = fopen("data.bin", "r");
printf("%d ", ftell(f));
printf("%d ", fseek(f, 0, 2));
printf("%d ", ftell(f));
fgetc(f);
printf("%s ", feof(f));
fseek(f, -3, 2);
printf("%s ", feof(f));
printf("%s ", fgets(f));
fseek(f, 2, 0);
fseek(f, 3, 1);
printf("%s ", fgetc(f));
printf("%d", fseek(f, 0, 7));
fclose(f);
`)
	if res.err != nil {
		t.Fatalf("run: %v", res.err)
	}
	if res.stdout != "0 0 13 true false abc 5 -1" {
		t.Fatalf("unexpected output %q", res.stdout)
	}
}

func TestFailedFopenScenarioExitsOne(t *testing.T) {
	res := runInDir(t, t.TempDir(), "", `
int main() {
  int f = fopen("does-not-exist.txt", "r");
  if (f == null) {
    printf("Failed to open file\n");
    return 1;
  }
  fclose(f);
  return 0;
}
main();
`)
	if res.err != nil {
		t.Fatalf("run: %v", res.err)
	}
	if res.stdout != "Failed to open file\n" {
		t.Fatalf("unexpected output %q", res.stdout)
	}
	if status := ExitStatus(res.value); status != 1 {
		t.Fatalf("expected exit 1, got %d", status)
	}
}

func TestFopenInvalidModeReturnsNull(t *testing.T) {
	res := runInDir(t, t.TempDir(), "", `printf("%s", fopen("x.txt", "q"));`)
	if res.err != nil {
		t.Fatalf("run: %v", res.err)
	}
	if res.stdout != "null" {
		t.Fatalf("unexpected output %q", res.stdout)
	}
}

func TestClosedHandleUse(t *testing.T) {
	dir := t.TempDir()
	res := runInDir(t, dir, "", `
int f = fopen("a.txt", "w");
int alias = f;
printf("%d", fclose(f));
fclose(alias);
`)
	requireKind(t, res.err, ErrClosedHandle, "already closed")
	if res.stdout != "0" {
		t.Fatalf("unexpected output %q", res.stdout)
	}

	for _, op := range []string{`fputs("x", f);`, `fgets(f);`, `fgetc(f);`, `feof(f);`, `ftell(f);`, `fseek(f, 0, 0);`, `rewind(f);`, `fprintf(f, "x");`} {
		res := runInDir(t, dir, "", `int f = fopen("b.txt", "w"); fclose(f); `+op)
		requireKind(t, res.err, ErrClosedHandle, "closed file")
	}
}

func TestWriteToReadOnlyHandleRaisesIOError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ro.txt"), []byte("data"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	res := runInDir(t, dir, "", `
int f = fopen("ro.txt", "r");
fputs("x", f);
`)
	requireKind(t, res.err, ErrIO, "not open for writing")

	res = runInDir(t, dir, "", `
int f = fopen("ro.txt", "a");
printf("%s ", fgetc(f));
printf("%s ", ferror(f));
clearerr(f);
printf("%s", ferror(f));
`)
	if res.err != nil {
		t.Fatalf("run: %v", res.err)
	}
	if res.stdout != "null true false" {
		t.Fatalf("unexpected output %q", res.stdout)
	}
}

func TestAppendAndFprintf(t *testing.T) {
	dir := t.TempDir()
	res := runInDir(t, dir, "", `
int f = fopen("log.txt", "w");
fprintf(f, "%s=%d\n", "a", 1);
fclose(f);
int g = fopen("log.txt", "a");
fprintf(g, "%s=%d\n", "b", 2);
printf("%d", fflush(g));
fclose(g);
`)
	if res.err != nil {
		t.Fatalf("run: %v", res.err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "log.txt"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "a=1\nb=2\n" {
		t.Fatalf("unexpected contents %q", data)
	}
}

func TestRenameAndRemove(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "old.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	res := runInDir(t, dir, "", `
printf("%s ", rename("old.txt", "new.txt"));
printf("%s ", rename("old.txt", "other.txt"));
printf("%s ", remove("new.txt"));
printf("%s", remove("new.txt"));
`)
	if res.err != nil {
		t.Fatalf("run: %v", res.err)
	}
	if res.stdout != "true false true false" {
		t.Fatalf("unexpected output %q", res.stdout)
	}
	if _, err := os.Stat(filepath.Join(dir, "new.txt")); !os.IsNotExist(err) {
		t.Fatalf("expected new.txt to be removed, got %v", err)
	}
}

func TestConsoleHandlesAreFileValues(t *testing.T) {
	res := runInDir(t, t.TempDir(), "hi\nrest", `
printf("%s", getchar());
printf("%s", fgetc(stdin));
printf("%s", fgets(stdin));
printf("%s|", fgets(stdin));
printf("%s|", getchar());
printf("%s|", feof(stdin));
fputs("via fputs|", stdout);
fprintf(stdout, "%d|", 7);
putchar("!");
putchar(10);
puts("line");
puts(42);
printf("%d %d", ftell(stdout), fseek(stdin, 0, 0));
`)
	if res.err != nil {
		t.Fatalf("run: %v", res.err)
	}
	want := "hi\nrest|null|true|via fputs|7|!\nline\n42\n-1 -1"
	if res.stdout != want {
		t.Fatalf("unexpected output %q want %q", res.stdout, want)
	}
}

func TestCharacterWritersUseWholeCharacters(t *testing.T) {
	res := mustRun(t, `putchar("é"); putchar("日本"); fputc("ü!", stdout); putchar(65); putchar(233); putchar(256); putc(10, stdout);`)
	if want := "é日üAéĀ\n"; res.stdout != want {
		t.Fatalf("unexpected output %q want %q", res.stdout, want)
	}
}

func TestNativeArgumentValidation(t *testing.T) {
	cases := []struct {
		source string
		kind   ErrorKind
		want   string
	}{
		{`fopen("a");`, ErrArityMismatch, "fopen expects 2 arguments, got 1"},
		{`fclose(1);`, ErrTypeMismatch, "fclose argument 1 must be file, got int"},
		{`fputc(true, stdout);`, ErrTypeMismatch, "fputc argument 1 must be string or int, got bool"},
		{`putchar("");`, ErrTypeMismatch, "must be a non-empty string"},
		{`putchar(-1);`, ErrTypeMismatch, "putchar argument 1 is not a character code: -1"},
		{`fputc(1114112, stdout);`, ErrTypeMismatch, "fputc argument 1 is not a character code: 1114112"},
		{`putchar(55296);`, ErrTypeMismatch, "not a character code"},
		{`fseek(stdout, "0", 0);`, ErrTypeMismatch, "fseek argument 2 must be int, got string"},
		{`getchar(1);`, ErrArityMismatch, "getchar expects 0 arguments, got 1"},
		{`puts();`, ErrArityMismatch, "puts expects 1 argument, got 0"},
	}
	for _, tc := range cases {
		res := runSource(t, tc.source)
		requireKind(t, res.err, tc.kind, tc.want)
	}
}

func TestStderrHandleWritesToHost(t *testing.T) {
	var errOut strings.Builder
	host, out := testHost(t, "")
	host.Stderr = &errOut
	res := runWithHost(t, MustNewEngine(Config{}), `fputs("oops\n", stderr);`, host, out)
	if res.err != nil {
		t.Fatalf("run: %v", res.err)
	}
	if errOut.String() != "oops\n" || res.stdout != "" {
		t.Fatalf("unexpected streams stderr=%q stdout=%q", errOut.String(), res.stdout)
	}
}
