package asset

// InputMachineConfig is the default input state machine graph
const InputMachineConfig = `

# === Focus ===

[states.Active]
initial = "Unfocused"
transitions = [
    { trigger = "Close", target = "Stopped" },
]

[states.Stopped]

[states.Unfocused]
parent = "Active"
transitions = [
    { trigger = "FocusIn", target = "Focused" },
    # Perspective switches while a widget holds focus are remembered for the next focus-in
    { trigger = "FirstPerson", actions = [{ action = "RememberPerspective", args = { perspective = "FirstPerson" } }] },
    { trigger = "ThirdPerson", actions = [{ action = "RememberPerspective", args = { perspective = "ThirdPerson" } }] },
    { trigger = "FreeCamera", actions = [{ action = "RememberPerspective", args = { perspective = "FreeCamera" } }] },
]

[states.Focused]
parent = "Active"
parallel = true
transitions = [
    { trigger = "FocusOut", target = "Unfocused" },
]

# === Keyboard ===

[states.KeyboardActive]
parent = "Focused"
on_exit = [
    { action = "ReleaseKeys" },
]
transitions = [
    { trigger = "KeyPress", actions = [{ action = "KeyListener" }] },
    { trigger = "KeyRelease", actions = [{ action = "KeyListener" }] },
]

# === Mouse ===

[states.Mouse]
parent = "Focused"
parallel = true

# --- MOVE PULSE ---

[states.Move]
parent = "Mouse"
initial = "MoveWaiting"

[states.MoveWaiting]
parent = "Move"
transitions = [
    { trigger = "MouseMove", target = "MoveActive" },
]

[states.MoveActive]
parent = "Move"
on_enter = [
    { action = "EmitMove", event = "MouseMove" },
]
transitions = [
    { trigger = "Tick", target = "MoveWaiting" },
]

# --- WHEEL PULSE ---

[states.Wheel]
parent = "Mouse"
initial = "WheelWaiting"

[states.WheelWaiting]
parent = "Wheel"
transitions = [
    { trigger = "Wheel", target = "WheelActive" },
]

[states.WheelActive]
parent = "Wheel"
on_enter = [
    { action = "EmitScroll", event = "MouseScroll" },
]
transitions = [
    { trigger = "Tick", target = "WheelWaiting" },
]

# --- BUTTONS ---

[states.LeftButton]
parent = "Mouse"
initial = "LeftButtonWaiting"

[states.LeftButtonWaiting]
parent = "LeftButton"
transitions = [
    { trigger = "MousePress", target = "LeftButtonActive", guard = "ButtonIs", guard_args = { button = "left" } },
]

[states.LeftButtonActive]
parent = "LeftButton"
on_enter = [
    { action = "WorldClick", event = "InWorldClick" },
    { action = "EmitButton", event = "MouseLeftPressed", args = { button = "left" } },
]
on_exit = [
    { action = "EmitButton", event = "MouseLeftReleased", args = { button = "left" } },
]
transitions = [
    { trigger = "MouseRelease", target = "LeftButtonWaiting", guard = "ButtonIs", guard_args = { button = "left" } },
]

[states.RightButton]
parent = "Mouse"
initial = "RightButtonWaiting"

[states.RightButtonWaiting]
parent = "RightButton"
transitions = [
    { trigger = "MousePress", target = "RightButtonActive", guard = "ButtonIs", guard_args = { button = "right" } },
]

[states.RightButtonActive]
parent = "RightButton"
on_enter = [
    { action = "EmitButton", event = "MouseRightPressed", args = { button = "right" } },
]
on_exit = [
    { action = "EmitButton", event = "MouseRightReleased", args = { button = "right" } },
]
transitions = [
    { trigger = "MouseRelease", target = "RightButtonWaiting", guard = "ButtonIs", guard_args = { button = "right" } },
]

[states.MiddleButton]
parent = "Mouse"
initial = "MiddleButtonWaiting"

[states.MiddleButtonWaiting]
parent = "MiddleButton"
transitions = [
    { trigger = "MousePress", target = "MiddleButtonActive", guard = "ButtonIs", guard_args = { button = "middle" } },
]

[states.MiddleButtonActive]
parent = "MiddleButton"
on_enter = [
    { action = "EmitButton", event = "MouseMiddlePressed", args = { button = "middle" } },
]
on_exit = [
    { action = "EmitButton", event = "MouseMiddleReleased", args = { button = "middle" } },
]
transitions = [
    { trigger = "MouseRelease", target = "MiddleButtonWaiting", guard = "ButtonIs", guard_args = { button = "middle" } },
]

# --- GESTURE ---

[states.Gesture]
parent = "Mouse"
initial = "GestureWaiting"
on_exit = [
    { action = "GestureComplete" },
]

[states.GestureWaiting]
parent = "Gesture"
transitions = [
    { trigger = "MousePress", target = "GestureEnabled", guard = "GestureButton" },
]

[states.GestureEnabled]
parent = "Gesture"
on_enter = [
    { action = "GestureBegin" },
]
transitions = [
    { trigger = "MouseMove", target = "GestureActive" },
    { trigger = "MouseRelease", target = "GestureWaiting", guard = "GestureReleased" },
]

[states.GestureActive]
parent = "Gesture"
on_enter = [
    { action = "GestureMove" },
]
transitions = [
    { trigger = "MouseMove", actions = [{ action = "GestureMove" }] },
    { trigger = "MouseRelease", target = "GestureComplete", guard = "GestureReleased" },
]

[states.GestureComplete]
parent = "Gesture"
on_enter = [
    { action = "GestureComplete" },
]
transitions = [
    { trigger = "Tick", target = "GestureWaiting" },
]

# === Perspective ===

[states.Perspective]
parent = "Focused"
initial = "ThirdPerson"
history = true
transitions = [
    { trigger = "FirstPerson", target = "FirstPerson" },
    { trigger = "ThirdPerson", target = "ThirdPerson" },
    { trigger = "FreeCamera", target = "FreeCamera" },
]

[states.ThirdPerson]
parent = "Perspective"
on_enter = [
    { action = "UseBindings", args = { perspective = "ThirdPerson" } },
]

[states.FirstPerson]
parent = "Perspective"
on_enter = [
    { action = "UseBindings", args = { perspective = "FirstPerson" } },
]

[states.FreeCamera]
parent = "Perspective"
on_enter = [
    { action = "UseBindings", args = { perspective = "FreeCamera" } },
]
`
