// Package bus implements the guest's physical address routing.
//
// A Bus is an address-ascending ordered collection of (base, device)
// pairs. An access at address a resolves to the device with the greatest
// base <= a, and the device sees the offset a-base. Any address at or
// above a device's base routes to that device until the next registered
// base, whatever the device's actual size — it is the device's own
// bounds check that rejects out-of-range offsets.
//
// The bus never validates that device ranges do not overlap beyond their
// base addresses. Callers that need overlap detection must do it at
// configuration time; changing the routing rule here would change
// externally observable behavior.
package bus
