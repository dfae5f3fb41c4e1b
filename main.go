package main

import (
	"winget-bootstrap/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point. It delegates to cmd.Execute.
//
// winget-bootstrap prepares a Windows machine for Java development:
//   - Checks whether winget answers "winget --version"
//   - If not, verifies the OS is Windows 10 1809 or later, downloads the VCLibs and UI.Xaml
//     dependencies, the latest winget-cli release bundle and license, provisions them with
//     PowerShell, registers the winget source and reloads the environment
//   - Installs the configured Java runtimes (Amazon Corretto 8, 17 and 21 by default)
//
// Error handling strategy:
//   - Every winget setup failure is fatal and exits with status 1
//   - A failed package install is logged and the remaining packages are still attempted;
//     it does not change the exit status
func main() {
	cmd.Execute()
}
