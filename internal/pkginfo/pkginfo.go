// Package pkginfo carries the package identity shared by every component:
// names, executables, and the D-Bus identifiers.
package pkginfo

const (
	// Package is the distribution package name.
	Package = "socranop"
	// Version is the package version recorded in rendered artifacts.
	Version = "0.5.0"

	// ExeCLI is the command-line mixer control executable.
	ExeCLI = "socranop-ctl"
	// ExeGUI is the graphical front-end executable.
	ExeGUI = "socranop-gui"
	// ExeService is the per-session mirror service executable.
	ExeService = "socranop-session-service"
	// ExeInstallTool is this tool's executable.
	ExeInstallTool = "socranop-installtool"

	// ApplicationID is the desktop application id of the GUI.
	ApplicationID = "io.github.socratools.socranop"
	// BusName is the session bus name of the mirror service.
	BusName = "io.github.socratools.socranop"
)
