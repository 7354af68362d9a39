package email

// Template selects one of the fixed draft layouts.
type Template string

const (
	TemplateMissing    Template = "missing"
	TemplateQuality    Template = "quality"
	TemplateResolution Template = "resolution"
	TemplateSummary    Template = "summary"
)

// ParseTemplate validates a template flag value.
func ParseTemplate(s string) (Template, bool) {
	switch Template(s) {
	case TemplateMissing, TemplateQuality, TemplateResolution, TemplateSummary:
		return Template(s), true
	}
	return "", false
}

type templateText struct {
	subject string
	body    string
}

var templates = map[Template]templateText{
	TemplateMissing: {
		subject: "Action Required: Missing POD Documentation - {count} Delivery(ies)",
		body: `Dear {contact_name},

We are reaching out regarding missing Proof of Delivery (POD) documentation for the following deliveries:

{issue_list}

Could you please provide the scanned POD documents for the above deliveries at your earliest convenience?

If you have any questions or need additional information, please don't hesitate to reach out.

Thank you for your prompt attention to this matter.

Best regards,
POD Management Team
`,
	},
	TemplateQuality: {
		subject: "POD Quality Issues Requiring Attention - {count} Item(s)",
		body: `Dear {contact_name},

We have identified quality issues with the following POD documents that require your attention:

{issue_list}

Please review and provide corrected POD documentation or clarification for the above items.

Issue Details:
{issue_details}

Thank you for your cooperation.

Best regards,
POD Management Team
`,
	},
	TemplateResolution: {
		subject: "POD Issue Resolution Request - {count} Outstanding Item(s)",
		body: `Dear {contact_name},

This is a follow-up regarding outstanding POD issues that require resolution:

{issue_list}

These items have been pending resolution. Please provide an update on the status or the corrected documentation.

If you need any additional information or support, please let us know.

Thank you for your attention to this matter.

Best regards,
POD Management Team
`,
	},
	TemplateSummary: {
		subject: "Weekly POD Status Summary - {date}",
		body: `Dear {contact_name},

Please find below the weekly POD status summary for your business:

Summary:
- Total Deliveries: {total}
- PODs Received: {received}
- PODs Missing: {missing}
- Issues Found: {issues}

Outstanding Items:
{issue_list}

Please address any outstanding items at your earliest convenience.

Best regards,
POD Management Team
`,
	},
}
