// Package render draws a riverlight session with Ebitengine.
//
// [Scene] implements ebiten.Game. Each tick it advances the session by one
// display frame and takes a snapshot; each draw paints, back to front:
//
//   - a sunset sky gradient
//   - the river as a triangle strip between the banks, with faint surface
//     lines and short-lived glints
//   - every active ripple as a wobbling ring with its phrase above it
//   - the fingertip marker (toggle with F or a click) and the status banner
//   - the debug panel (toggle with D)
//
// [Pointer] lets the mouse stand in for a hand when no camera is available.
package render
