// Package pathutils resolves user-supplied filesystem paths before they reach vlt.
package pathutils
