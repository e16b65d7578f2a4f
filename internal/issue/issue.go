// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

const (
	MetadataFileNotFoundId Id = iota + 1
	DocumentParseErrorId
	UnsupportedFormatId
	NoRuleSetId
	UnknownDocumentTypeId
	ConfigLoadFailedId
	GitRepositoryUnavailableId
)

type (
	// Id identifies a catalog issue.
	Id int

	// MarkdownMsg is guidance text rendered with glamour.
	MarkdownMsg string

	// Issue is a catalog entry describing a well-known operator problem.
	Issue struct {
		id    Id
		mdMsg MarkdownMsg
	}
)

var (
	render = glamour.Render

	metadataFileNotFoundIssue = &Issue{
		id: MetadataFileNotFoundId,
		mdMsg: `
# Metadata file not found!

One of the files passed to the check does not exist.

## Things you can try:
- Pass paths relative to the current directory, or bare file names
  resolved inside the configured metadata directory:
~~~
$ metacheck check metadata/tokens/<tokenId>.json
$ metacheck check --type token <tokenId>.json
~~~
- Check all registry documents instead:
~~~
$ metacheck check --all
~~~`,
	}

	documentParseErrorIssue = &Issue{
		id: DocumentParseErrorId,
		mdMsg: `
# Failed to parse metadata document!

The file could not be decoded, so none of its rules were run.

## Common issues:
- Trailing commas or comments in JSON
- Tabs used for indentation in YAML
- Documents larger than the 5 MB limit

## Things you can try:
- Check the error message above for the line and column
- Run with verbose mode for the full error chain:
~~~
$ metacheck --verbose check <file>
~~~`,
	}

	unsupportedFormatIssue = &Issue{
		id: UnsupportedFormatId,
		mdMsg: `
# Unsupported document format!

Metadata documents must use one of the extensions ` + "`.json`, `.yaml`, `.yml`, `.toml` or `.cue`" + `.

## Things you can try:
- Rename the file to the registry's configured format
- Set ` + "`document_format`" + ` in your configuration:
~~~cue
document_format: "yaml"
~~~`,
	}

	noRuleSetIssue = &Issue{
		id: NoRuleSetId,
		mdMsg: `
# No rule set for this document type!

There is no built-in rule set with the requested name for this type of metadata.

## Available rule sets:
- token: ` + "`well-formedness`, `signature`" + `
- contract: ` + "`well-formedness`" + `

## Things you can try:
~~~
$ metacheck check --type token --rules well-formedness <file>
~~~`,
	}

	unknownDocumentTypeIssue = &Issue{
		id: UnknownDocumentTypeId,
		mdMsg: `
# Could not tell the document type!

The type of a metadata document is taken from the directory it lives in
(` + "`tokens/` or `contracts/`" + `) unless given explicitly.

## Things you can try:
~~~
$ metacheck check --type contract path/to/document.json
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Search locations (in order of precedence):
1. The file given with ` + "`--config`" + `
2. ` + "`$XDG_CONFIG_HOME/metacheck/config.cue`" + `
3. ` + "`./metacheck.cue`" + `

## Things you can try:
- Print the effective configuration:
~~~
$ metacheck config show
~~~
- Write a fresh configuration with defaults:
~~~
$ metacheck config init
~~~`,
	}

	gitRepositoryUnavailableIssue = &Issue{
		id: GitRepositoryUnavailableId,
		mdMsg: `
# Git repository unavailable!

` + "`--changed`" + ` compares the working tree against a base ref, which needs
a git repository and a resolvable ref.

## Things you can try:
- Run the command from inside the registry clone
- Fetch the base ref, or choose another one:
~~~cue
git: base_ref: "main"
~~~
- Pass the files explicitly instead of using ` + "`--changed`",
	}

	issues = map[Id]*Issue{
		metadataFileNotFoundIssue.Id():     metadataFileNotFoundIssue,
		documentParseErrorIssue.Id():       documentParseErrorIssue,
		unsupportedFormatIssue.Id():        unsupportedFormatIssue,
		noRuleSetIssue.Id():                noRuleSetIssue,
		unknownDocumentTypeIssue.Id():      unknownDocumentTypeIssue,
		configLoadFailedIssue.Id():         configLoadFailedIssue,
		gitRepositoryUnavailableIssue.Id(): gitRepositoryUnavailableIssue,
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the guidance with the given glamour style ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

// Values returns every catalog issue ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int { return int(a.id - b.id) })
}

// Get returns the catalog issue for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
