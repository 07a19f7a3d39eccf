// Package focus flies the camera to a body and then keeps it locked on.
//
// A Controller owns at most one Session. Each tick it hands the camera to
// exactly one writer, chosen by its Authority: the orbit controller, the
// running flight animation, or the follower.
package focus
