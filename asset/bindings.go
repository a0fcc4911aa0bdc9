package asset

// DefaultBindingsINI is the shipped key binding file, copied to the config dir on first run
// Values are comma-separated key sequences; the comma key itself is spelled "Comma"
const DefaultBindingsINI = `; Key bindings
; Edit [Bindings.Custom] to override; [Bindings.Default] is used when no custom section exists

[Bindings.Default]
avatar.move.forward   = W, Up
avatar.move.back      = S, Down
avatar.move.left      = A
avatar.move.right     = D
avatar.move.up        = Space
avatar.move.down      = C
avatar.rotate.left    = Left
avatar.rotate.right   = Right
avatar.zoom.in        = PgUp
avatar.zoom.out       = PgDown
avatar.toggle.fly     = F
avatar.toggle.run     = Ctrl+R
avatar.camera.switch  = Tab
avatar.console.toggle = F1

camera.move.forward   = W, Up
camera.move.back      = S, Down
camera.move.left      = A
camera.move.right     = D
camera.move.up        = Space
camera.move.down      = C
camera.rotate.left    = Left
camera.rotate.right   = Right
camera.zoom.in        = PgUp
camera.zoom.out       = PgDown
camera.switch         = Tab
camera.console.toggle = F1
`
