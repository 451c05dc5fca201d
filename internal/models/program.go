package models

// ProgramPriceIDs maps the coaching programs sold on the site to
// pre-provisioned Stripe price IDs. An empty ID means the subscription flow
// creates an ad hoc monthly price for that program instead of reusing one.
var ProgramPriceIDs = map[string]string{
	"Beginner Kickstart": "",
	"Hybrid Athlete":     "",
	"Elite 1:1 Coaching": "",
}

// ProgramPriceID returns the configured Stripe price ID for a program, if any.
func ProgramPriceID(programName string) (string, bool) {
	id, ok := ProgramPriceIDs[programName]
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
