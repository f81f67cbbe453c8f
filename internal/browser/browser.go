// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/apex/log"
)

// Platform identifies an operating system family with a known way of opening
// URLs.
type Platform int

const (
	Unsupported Platform = iota
	Linux
	Darwin
	Windows
)

// ParsePlatform maps a runtime.GOOS value to a Platform. Anything unknown is
// Unsupported.
func ParsePlatform(goos string) Platform {
	switch goos {
	case "linux":
		return Linux
	case "darwin":
		return Darwin
	case "windows":
		return Windows
	default:
		return Unsupported
	}
}

func (p Platform) String() string {
	switch p {
	case Linux:
		return "linux"
	case Darwin:
		return "darwin"
	case Windows:
		return "windows"
	default:
		return "unsupported"
	}
}

var (
	// ErrUnsupportedPlatform is matched by the error of a Launcher for a
	// platform without a known open command.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrInvalidURL is returned for URLs without a scheme.
	ErrInvalidURL = errors.New("url must include the protocol")
)

// UnsupportedPlatformError names the platform that could not be served.
type UnsupportedPlatformError struct {
	Name string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("cannot open browser in platform %q", e.Name)
}

func (e *UnsupportedPlatformError) Is(target error) bool {
	return target == ErrUnsupportedPlatform
}

// Launcher builds the command line that opens a URL on one platform.
type Launcher interface {
	Command(url string) ([]string, error)
}

// LauncherFunc adapts a function to the Launcher interface.
type LauncherFunc func(url string) ([]string, error)

func (f LauncherFunc) Command(url string) ([]string, error) {
	return f(url)
}

var launchers = map[Platform]Launcher{
	Linux: LauncherFunc(func(url string) ([]string, error) {
		return []string{"xdg-open", url}, nil
	}),
	Darwin: LauncherFunc(func(url string) ([]string, error) {
		return []string{"open", url}, nil
	}),
	// Bypasses cmd.exe so "&" and "^" in the URL are not interpreted.
	Windows: LauncherFunc(func(url string) ([]string, error) {
		return []string{"rundll32", "url.dll,FileProtocolHandler", url}, nil
	}),
}

// LauncherFor returns the Launcher for goos. Unknown platforms get a Launcher
// that always fails with an UnsupportedPlatformError.
func LauncherFor(goos string) Launcher {
	if l, ok := launchers[ParsePlatform(goos)]; ok {
		return l
	}
	return LauncherFunc(func(string) ([]string, error) {
		return nil, &UnsupportedPlatformError{Name: goos}
	})
}

// Runner starts argv without waiting for it to finish.
type Runner func(argv []string) error

// StartDetached starts argv with stdout and stderr discarded and reaps the
// child in the background.
func StartDetached(argv []string) error {
	cmd := exec.Command(argv[0], argv[1:]...) //nolint:gosec
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", argv[0], err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			log.WithError(err).Debugf("%s exited", argv[0])
		}
	}()
	return nil
}

// Opener opens URLs in the user's default browser.
type Opener struct {
	// GOOS selects the Launcher. Defaults to runtime.GOOS.
	GOOS string
	// Run defaults to StartDetached.
	Run Runner
}

// Open validates rawURL and hands the platform command to the Runner. On an
// unsupported platform nothing is run and the UnsupportedPlatformError is
// returned so the caller can pick a fallback, such as printing the URL.
func (o *Opener) Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	goos := o.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	argv, err := LauncherFor(goos).Command(rawURL)
	if err != nil {
		return err
	}
	log.Debugf("opening browser: %v", argv)

	run := o.Run
	if run == nil {
		run = StartDetached
	}
	return run(argv)
}

// Open opens rawURL on the current platform.
func Open(rawURL string) error {
	return (&Opener{}).Open(rawURL)
}
