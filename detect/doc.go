// Package detect provides hand detectors for riverlight sessions.
//
// [Remote] talks to an external pose bridge over a websocket: the bridge owns
// the camera and the hand landmark model and answers one estimate request per
// poll cycle. [Script] replays a fingertip path from a JSON file, which is
// handy for rehearsals and tests without a camera.
//
// Bridge messages are small JSON objects, read with gjson and written with
// sjson. See [ParseReply] for the reply format.
package detect
