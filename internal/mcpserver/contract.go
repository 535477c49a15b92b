package mcpserver

// IssueFormSyntax describes the issue form and config.yml layout that the
// previewer understands, for LLM consumers writing or fixing templates.
const IssueFormSyntax = `# Issue Form Syntax

Issue forms are YAML files in ` + "`" + `.github/ISSUE_TEMPLATE/` + "`" + ` ending in
` + "`" + `.yml` + "`" + ` or ` + "`" + `.yaml` + "`" + `.

## Top-level keys

| Key | Required | Notes |
|---|---|---|
| ` + "`" + `name` + "`" + ` | yes | Shown on the template chooser |
| ` + "`" + `description` + "`" + ` | yes | Shown under the name |
| ` + "`" + `title` + "`" + ` | no | Default issue title |
| ` + "`" + `labels` + "`" + ` | no | List, or comma-separated string |
| ` + "`" + `assignees` + "`" + ` | no | List, or comma-separated string |
| ` + "`" + `body` + "`" + ` | no | List of fields, rendered in order |

Unknown keys are ignored.

## Field types

Every field has a ` + "`" + `type` + "`" + ` and an ` + "`" + `attributes` + "`" + ` mapping.
All types except ` + "`" + `markdown` + "`" + ` take an ` + "`" + `id` + "`" + ` (letters, digits, ` + "`" + `-` + "`" + ` and ` + "`" + `_` + "`" + `)
and an optional ` + "`" + `validations.required` + "`" + ` boolean.

- ` + "`" + `markdown` + "`" + `: ` + "`" + `attributes.value` + "`" + ` (Markdown, required).
- ` + "`" + `input` + "`" + `: ` + "`" + `label` + "`" + `, ` + "`" + `description` + "`" + `, ` + "`" + `placeholder` + "`" + `, ` + "`" + `value` + "`" + `.
- ` + "`" + `textarea` + "`" + `: as input, plus ` + "`" + `render` + "`" + ` (a language name for code output).
- ` + "`" + `dropdown` + "`" + `: ` + "`" + `label` + "`" + `, ` + "`" + `description` + "`" + `, ` + "`" + `multiple` + "`" + `, ` + "`" + `options` + "`" + ` (non-empty list of strings).
- ` + "`" + `checkboxes` + "`" + `: ` + "`" + `label` + "`" + `, ` + "`" + `description` + "`" + `, ` + "`" + `options` + "`" + ` (list of
  ` + "`" + `{label, required}` + "`" + `).

Labels and checkbox option labels accept inline Markdown; descriptions accept
block Markdown.

## config.yml

` + "```" + `yaml
blank_issues_enabled: true   # default true
contact_links:
  - name: Discussions        # all three keys required
    url: https://github.com/OWNER/REPO/discussions
    about: Ask and answer questions
` + "```" + `

## Example

` + "```" + `yaml
name: Bug Report
description: File a bug report
labels: ["bug", "triage"]
body:
  - type: markdown
    attributes:
      value: Thanks for taking the time to fill out this bug report!
  - type: textarea
    id: what-happened
    attributes:
      label: What happened?
      render: shell
    validations:
      required: true
` + "```" + `
`
