// Package highlevel is a client for the HighLevel (LeadConnector) REST API.
//
// A Client issues single authenticated calls. Resources such as Agency,
// Location and Contact are bound to the Client and Credentials that produced
// them, so chained operations reuse the same authentication:
//
//	client := highlevel.NewClient(cfg)
//	location := highlevel.NewLocation(client, highlevel.NewCredentials(token), locationID)
//	contacts, err := location.Contacts(ctx, nil)
//	if err != nil {
//		return err
//	}
//	for contact, err := range contacts.All(ctx) {
//		...
//	}
//
// Collection endpoints return a Cursor that fetches pages lazily.
package highlevel
