// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ScriptsDirNotFoundId Id = iota + 1
	MetadataParseErrorId
	CommandNotFoundId
	CommandCollisionId
	ScriptNotRunnableId
	InterpreterNotFoundId
	ValidationFailedId
	ScriptExecutionFailedId
	ConfigLoadFailedId
	InvalidRuntimeModeId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	scriptsDirNotFoundIssue = &Issue{
		id: ScriptsDirNotFoundId,
		mdMsg: `
# Scripts directory not found!

shutl could not read the directory it builds your commands from.

## Where shutl looks:
1. The directory in the SHUTL_DIR environment variable, if set
2. The scripts_dir key in your config file
3. ~/.shutl (created on first run)

## Things you can try:
- Point SHUTL_DIR at your scripts:
~~~
$ export SHUTL_DIR=~/my-scripts
~~~

- Or create a first script:
~~~
$ shutl new hello
~~~`,
	}

	metadataParseErrorIssue = &Issue{
		id: MetadataParseErrorId,
		mdMsg: `
# Failed to parse script metadata!

A script's leading comment block contains a malformed directive.

## Common issues:
- Unknown directive (only description, arg and flag are recognized)
- Missing ' - ' separator between a name and its description
- Unknown or conflicting bracket options
- A flag that is both required and has a default
- Duplicate argument or flag names

## Example of a valid metadata block:
~~~bash
#!/bin/bash
#@description: Deploys the application
#@arg:environment - Target environment [default:staging]
#@flag:dry-run - Print the plan without applying it [bool]
#@flag:region - Target region [options:eu|us|ap]
~~~

The error message above names the file and line to fix.`,
	}

	commandNotFoundIssue = &Issue{
		id: CommandNotFoundId,
		mdMsg: `
# Command not found!

No script in your scripts directory resolves to that name.

## Things you can try:
- List all available commands:
~~~
$ shutl list
~~~

- Check for typos in the command name
- Remember that interpreter extensions are trimmed: deploy.sh is invoked
  as 'deploy'
- Use tab completion:
~~~
$ shutl <TAB>
~~~`,
	}

	commandCollisionIssue = &Issue{
		id: CommandCollisionId,
		mdMsg: `
# Command name collision!

Two entries in your scripts directory resolve to the same command name.
This usually happens when extension trimming makes two files identical
(deploy.sh and deploy.py both become 'deploy'), or a script shares a name
with a subdirectory.

## Things you can try:
- Rename one of the colliding files
- Move one of them into a subdirectory (subdirectories become namespaces)`,
	}

	scriptNotRunnableIssue = &Issue{
		id: ScriptNotRunnableId,
		mdMsg: `
# Script is not runnable!

The script has no executable bit and no recognized interpreter extension,
so shutl does not know how to run it.

## Things you can try:
- Make the script executable:
~~~
$ chmod +x ~/.shutl/myscript
~~~

- Or give it an interpreter extension (.sh, .py, .rb, .js) so shutl can
  pick the interpreter for you`,
	}

	interpreterNotFoundIssue = &Issue{
		id: InterpreterNotFoundId,
		mdMsg: `
# Interpreter not found!

The script is not executable, and the interpreter for its extension is not
installed on this system.

## Extension to interpreter mapping:
- .sh  → bash
- .py  → python3
- .rb  → ruby
- .js  → node

## Things you can try:
- Install the missing interpreter
- Make the script executable with its own shebang line:
~~~
$ chmod +x ~/.shutl/myscript.py
~~~

- For shell scripts, use the built-in interpreter:
~~~toml
default_runtime = "virtual"
~~~`,
	}

	validationFailedIssue = &Issue{
		id: ValidationFailedId,
		mdMsg: `
# Invalid invocation!

The arguments you passed do not satisfy the script's declared schema.
Nothing was executed.

## Common causes:
- A required flag or argument is missing
- A value is outside the flag's declared option set
- A file/dir flag points at something that doesn't exist
- More positional arguments than the script declares (and no catch-all)
- Both --flag and --no-flag passed together

## Things you can try:
- Check the command's help for its declared arguments and flags:
~~~
$ shutl <command> --help
~~~`,
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# Script execution failed!

The script could not be started.

## Common causes:
- Interpreter missing from PATH
- Permission denied
- Exec format error (bad or missing shebang)

## Things you can try:
- Run with verbose mode for more details:
~~~
$ shutl --verbose <command>
~~~

- Test the script manually in your shell
- Check file permissions and the shebang line`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the shutl configuration file.

## Configuration file locations:
- Linux: ~/.config/shutl/config.toml
- macOS: ~/Library/Application Support/shutl/config.toml
- Windows: %APPDATA%\shutl\config.toml

## Things you can try:
- Create a default configuration:
~~~
$ shutl config init
~~~

- Check the TOML syntax
- Remove the config file to use defaults

## Example configuration:
~~~toml
scripts_dir = "~/my-scripts"
env_prefix = "CLI"
default_runtime = "native"

[ui]
verbose = false
~~~`,
	}

	invalidRuntimeModeIssue = &Issue{
		id: InvalidRuntimeModeId,
		mdMsg: `
# Invalid runtime mode!

The specified runtime mode is not recognized.

## Valid runtime modes:
- **native**: spawn the script as a child process (default)
- **virtual**: run shell scripts in the built-in sh interpreter

## Example:
~~~toml
default_runtime = "native"
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to perform this operation.

## Common causes:
- The scripts directory is not readable
- A script file is not readable
- Trying to write the config into a protected directory

## Things you can try:
- Check file/directory permissions
- Point SHUTL_DIR at a directory you own`,
	}

	issues = map[Id]*Issue{
		scriptsDirNotFoundIssue.Id():    scriptsDirNotFoundIssue,
		metadataParseErrorIssue.Id():    metadataParseErrorIssue,
		commandNotFoundIssue.Id():       commandNotFoundIssue,
		commandCollisionIssue.Id():      commandCollisionIssue,
		scriptNotRunnableIssue.Id():     scriptNotRunnableIssue,
		interpreterNotFoundIssue.Id():   interpreterNotFoundIssue,
		validationFailedIssue.Id():      validationFailedIssue,
		scriptExecutionFailedIssue.Id(): scriptExecutionFailedIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		invalidRuntimeModeIssue.Id():    invalidRuntimeModeIssue,
		permissionDeniedIssue.Id():      permissionDeniedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
