package messages

// CLI messages for the installtool commands and flags.
const (
	// RootUse is the CLI command name.
	RootUse = "socranop-installtool"
	// RootShort is the short description for the root command.
	RootShort = "Hook socranop into the system after a pip install (or undo it)"
	RootLong  = "socranop-installtool wires an installed socranop package into the\n" +
		"desktop session: D-Bus activation, menu entry, icons, man pages,\n" +
		"shell completions, and the udev rules granting device access.\n" +
		"Operations that need elevated privilege are never run directly;\n" +
		"they are collected into a shell script for manual review."

	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	FlagVerbose = "Echo every planned operation before executing it"
	FlagDryRun  = "Compute and report the plan without touching any file"

	// PostInstallUse is the post-pip-install command name.
	PostInstallUse   = "post-pip-install"
	PostInstallShort = "Install socranop's system integration files"
	FlagNoLaunch     = "Skip the bus-activation test launch of the session service"
	FlagSudoScript   = "Write the script of privileged commands to FILE instead of stdout"

	// PreUninstallUse is the pre-pip-uninstall command name.
	PreUninstallUse   = "pre-pip-uninstall"
	PreUninstallShort = "Remove everything post-pip-install set up"

	// BuildInstallUse is the package-build-install command name.
	BuildInstallUse   = "package-build-install"
	BuildInstallShort = "Install into a staging tree during a distribution package build"
	FlagChroot        = "Staging root to install into (paths inside rendered files stay unstaged)"
	FlagForcePrefix   = "Accept a non-standard install prefix derived from the running executable"

	BuildInstallFlagConflict = "exactly one of --chroot or --force-prefix is required"

	DryRunHeader    = "Dry run: no files will be written."
	PlanHeaderFmt   = "Plan for %s (%d operations):\n"
	VerboseOpFmt    = "  [%s] %s\n"
	UsingLayoutFmt  = "Using layout: %s\n"
	UsingChrootFmt  = "Using staging root %s\n"
	CompletedFmt    = "Completed %d operations (%d already up to date, %d skipped).\n"
	AbortedSplitFmt = "Aborted: %d operations completed, %d still pending.\n"
	PendingOpFmt    = "  pending: %s\n"
)
