// Ganymede is an approval-policy service for company spend.
//
// It owns a structured policy document (ordered rule containers with
// conditions and approval, notification, and auto-approve outcomes),
// applies mutations through a pure transition engine, and translates
// free-form rule descriptions into structured rules.
//
// Usage:
//
//	# Start the server with default configuration
//	ganymede run
//
//	# Start with a custom configuration file
//	ganymede run --config /etc/ganymede/config.yaml
//
//	# Validate a policy document file
//	ganymede validate --file policy.yaml
//
//	# Translate a rule description from the command line
//	ganymede translate "require approval from any manager when a transaction is over $500"
//
//	# Show version information
//	ganymede version
package main

func main() {
	Execute()
}
