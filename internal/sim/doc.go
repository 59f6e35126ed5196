// Package sim drives the cloth one frame at a time.
//
// A host (terminal, window, headless runner) owns the loop and calls
// [Controller.Update] with the frame's dt, the sampled [Input] and a
// [render.Surface]. Each frame runs in a fixed order:
//
//  1. reset, if requested
//  2. grab / release
//  3. drag override of the held particle
//  4. all spring forces
//  5. gravity + integration per particle
//  6. wind update (A*sin(t), plus optional Perlin gusts)
//  7. observers
//  8. draw: faces, springs, particles
//
// Steps 4 to 6 repeat once per substep when dt exceeds Params.Substep.
//
// # Thread Safety
//
// Controller instances are NOT thread-safe. Parallel runs use one
// Controller each.
package sim
