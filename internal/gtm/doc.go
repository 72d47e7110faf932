// Package gtm models the parts of a Google Tag Manager container that gtmdocs
// documents and provides the sources that fetch them: the Tag Manager API v2
// and GTM container export files.
package gtm
