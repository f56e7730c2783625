// Package instance discovers installed IDE instances and maps each one to
// the record file holding its recent-items list.
//
// Discovery runs an external locator that prints a JSON array of
// installations. Output that is empty or not JSON yields no instances. Only
// a locator executable that cannot be found at all is reported, as
// [ErrLocatorNotFound], since that is a configuration mistake the user can
// fix.
//
// Instances can also be declared statically in the config file; they are
// merged with whatever the locator reports.
package instance
