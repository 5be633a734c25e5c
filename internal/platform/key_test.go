package platform

import (
	"errors"
	"testing"
)

func TestKeyFor(t *testing.T) {
	tests := []struct {
		name    string
		goos    string
		goarch  string
		want    Key
		wantErr bool
	}{
		{name: "windows_amd64", goos: "windows", goarch: "amd64", want: KeyWin32},
		{name: "windows_arm64", goos: "windows", goarch: "arm64", want: KeyWin32},
		{name: "linux_amd64", goos: "linux", goarch: "amd64", want: KeyLinux},
		{name: "linux_arm64", goos: "linux", goarch: "arm64", want: KeyLinux},
		{name: "darwin_amd64", goos: "darwin", goarch: "amd64", want: KeyDarwin},
		{name: "darwin_arm64", goos: "darwin", goarch: "arm64", want: KeyArm64},
		{name: "darwin_aarch64", goos: "darwin", goarch: "aarch64", want: KeyArm64},
		{name: "freebsd", goos: "freebsd", goarch: "amd64", wantErr: true},
		{name: "empty", goos: "", goarch: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := KeyFor(tt.goos, tt.goarch)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedPlatform) {
					t.Fatalf("KeyFor() error = %v, want ErrUnsupportedPlatform", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("KeyFor() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("KeyFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyExecutableName(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{KeyWin32, "rokit.exe"},
		{KeyLinux, "rokit"},
		{KeyDarwin, "rokit"},
		{KeyArm64, "rokit"},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			if got := tt.key.ExecutableName("rokit"); got != tt.want {
				t.Errorf("ExecutableName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyValid(t *testing.T) {
	for _, k := range AllKeys {
		if !k.Valid() {
			t.Errorf("%q should be valid", k)
		}
	}
	if Key("solaris").Valid() {
		t.Error("solaris should not be valid")
	}
}

func TestCurrentKeyIsStable(t *testing.T) {
	first, err1 := CurrentKey()
	second, err2 := CurrentKey()
	if (err1 == nil) != (err2 == nil) || first != second {
		t.Errorf("CurrentKey() not stable: %q/%v then %q/%v", first, err1, second, err2)
	}
}
