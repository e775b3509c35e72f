package main

// Message constants
const (
	MsgNewShort = "Create, provision, and deploy a new project from the template"

	MsgNewLong = `Create a new project directory from the template, substitute the
project's name, domain, and title into every file, provision a Stripe
product, price, payment link, and webhook endpoint, write .dev.vars,
and deploy with wrangler.

Missing arguments are prompted for interactively. Resources created
before a failure are left in place; nothing is rolled back.`

	MsgNewExample = `  launchpad new
  launchpad new myapp myapp.example.com "My App"
  launchpad new myapp myapp.example.com "My App" --price 29.99
  launchpad new myapp myapp.example.com "My App" --template ./my-template`

	MsgNewFlagTemplate = "Template directory to materialize the project from"
	MsgNewFlagPrice    = "Fixed price in USD; omit to let customers choose the amount"
)
