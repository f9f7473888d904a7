package messages

// Messages for layout resolution, planning, and execution.
const (
	// LayoutPrefixRejectedFmt rejects a prefix the resolver does not recognize.
	LayoutPrefixRejectedFmt = "prefix rejected: %s is not /usr, /usr/local, or $HOME/.local (use --force-prefix to override)"
	LayoutExeOutsideBinFmt  = "prefix rejected: executable %s is not under a bin directory"
	LayoutChrootRelativeFmt = "staging root must be an absolute path, got %q"
	LayoutExeNotInChrootFmt = "executable %s is not inside staging root %s"
	LayoutResolveHomeErrFmt = "resolve home dir: %w"

	RenderUnknownPlaceholderFmt = "template %s references unknown placeholder %q"
	RenderMissingValueFmt       = "template %s: no value for placeholder %q"
	RenderUnterminatedFmt       = "template %s: unterminated ${ placeholder"

	CatalogMissingSourceFmt = "artifact %s: source %s: %w"
	CatalogDestEscapesFmt   = "artifact %s: destination %s is outside every layout directory"
	CatalogManSourceFmt     = "man page source %s does not follow <name>.<section>.in"

	DevicesParseErrFmt = "parse device table: %w"
	DevicesEmptyTable  = "device table lists no products"

	PlanCreateDirErrFmt    = "create directory for %s: %w"
	PlanWriteErrFmt        = "write %s: %w"
	PlanRemoveErrFmt       = "remove %s: %w"
	PlanSymlinkErrFmt      = "symlink %s -> %s: %w"
	PlanShellCommandDirect = "shell commands are never executed directly; this is a sudo-script entry"

	SudoScriptWriteErrFmt = "write sudo script %s: %w"
	SudoScriptNone        = "No commands left over to run with sudo. Good.\n"
	SudoScriptStdoutHint  = "You should probably run the following commands with sudo:\n"
	SudoScriptFileHintFmt = "You should probably run this script with sudo (example command below):\n\nSuggested command: sudo %s\n"

	ProbeStartingFmt      = "Starting D-Bus service %s as a test...\n"
	ProbeRetryFmt         = "Retrying, %d attempts left...\n"
	ProbeOldStoppedFmt    = "Stopped running service version %s\n"
	ProbeOldNotRunning    = "Old D-Bus service not running\n"
	ProbeVersionFmt       = "Service version: %s\n"
	ProbeShutDown         = "Session D-Bus service has been shut down\n"
	ProbeWarnFmt          = "Warning: service liveness probe failed: %v\n"
	ProbeSkippedNoSession = "No session bus available, skipping service probe\n"

	UninstallServiceStopped = "D-Bus service is unregistered\n"
	InstallDoneFmt          = "Run %s or %s as a regular user.\n"
	RemoveSelfHeader        = "Removing installtool files from the staging tree\n"
	TriggerHookHeader       = "Device-rescan commands for the package hook scripts:\n"
)
