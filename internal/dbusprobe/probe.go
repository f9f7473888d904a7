// Package dbusprobe checks that the mirror service can be started on
// demand through session-bus activation. Every check is best effort and
// bounded; install and uninstall treat failures as warnings.
package dbusprobe

import (
	"fmt"
	"io"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/socratools/socranop/internal/messages"
	"github.com/socratools/socranop/internal/pkginfo"
)

const objectPath = dbus.ObjectPath("/io/github/socratools/socranop")

// Probe drives the liveness check against one session bus.
type Probe struct {
	BusName  string
	Attempts int
	Delay    time.Duration
	Out      io.Writer
}

// New returns a probe for the mirror service with the bounded retry
// budget the installer uses: the bus gets a few seconds to notice a
// freshly installed activation file.
func New(out io.Writer) *Probe {
	return &Probe{
		BusName:  pkginfo.BusName,
		Attempts: 5,
		Delay:    time.Second,
		Out:      out,
	}
}

// StopRunning shuts down an already-running service instance so the next
// activation picks up the newly installed files. A service that is not
// running is not an error.
func (p *Probe) StopRunning() error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()

	running, err := nameHasOwner(conn, p.BusName)
	if err != nil {
		return err
	}
	if !running {
		fmt.Fprint(p.Out, messages.ProbeOldNotRunning)
		return nil
	}
	version := p.serviceVersion(conn)
	if err := p.shutdown(conn); err != nil {
		return err
	}
	fmt.Fprintf(p.Out, messages.ProbeOldStoppedFmt, version)
	return nil
}

// Start activates the service by bus name, reads its version, and shuts
// it down again. Activation is retried because the bus may not have
// scanned the new service file yet.
func (p *Probe) Start() error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Fprintf(p.Out, messages.ProbeStartingFmt, p.BusName)
	attempts := p.Attempts
	for {
		var started uint32
		call := conn.BusObject().Call("org.freedesktop.DBus.StartServiceByName", 0, p.BusName, uint32(0))
		if call.Err == nil {
			_ = call.Store(&started)
			break
		}
		attempts--
		if attempts <= 0 {
			return call.Err
		}
		fmt.Fprintf(p.Out, messages.ProbeRetryFmt, attempts)
		time.Sleep(p.Delay)
	}

	fmt.Fprintf(p.Out, messages.ProbeVersionFmt, p.serviceVersion(conn))
	if err := p.shutdown(conn); err != nil {
		return err
	}
	fmt.Fprint(p.Out, messages.ProbeShutDown)
	return nil
}

func (p *Probe) serviceVersion(conn *dbus.Conn) string {
	variant, err := conn.Object(p.BusName, objectPath).GetProperty(p.BusName + ".version")
	if err != nil {
		return "unknown"
	}
	var version string
	if err := variant.Store(&version); err != nil {
		return "unknown"
	}
	return version
}

func (p *Probe) shutdown(conn *dbus.Conn) error {
	return conn.Object(p.BusName, objectPath).Call(p.BusName+".Shutdown", 0).Err
}

func nameHasOwner(conn *dbus.Conn, name string) (bool, error) {
	var has bool
	err := conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, name).Store(&has)
	return has, err
}
