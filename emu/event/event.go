package event

/*
 * R3000 - Guest cycle event scheduler
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Deferred device work keyed to retired guest cycles. The driver feeds
// the cycles each executed block retired into Advance between execute
// calls. Events hold times relative to the previous list entry. The
// owner is an opaque token a device uses to cancel its own events.

type Callback = func(iarg int)

type Event struct {
	time  uint32   // Cycles to event, relative to previous entry
	owner any      // Token the event was registered under
	cb    Callback // Function to callback
	iarg  int      // Integer argument
	prev  *Event
	next  *Event
}

type EventList struct {
	head *Event
	tail *Event
}

var el EventList

// Add an event. A zero delay fires the callback immediately.
func AddEvent(owner any, cb Callback, cycles uint32, iarg int) {
	if cycles == 0 {
		cb(iarg)
		return
	}

	ev := &Event{owner: owner, cb: cb, time: cycles, iarg: iarg}

	evptr := el.head
	// If empty put on head
	if evptr == nil {
		el.head = ev
		el.tail = ev
		return
	}

	// Scan for place to install it
	for evptr != nil {
		// Event before next event
		if ev.time <= evptr.time {
			evptr.time -= ev.time
			ev.prev = evptr.prev
			ev.next = evptr
			evptr.prev = ev
			if ev.prev != nil {
				ev.prev.next = ev
			} else {
				el.head = ev
			}
			return
		}
		// Make new event relative to head of list
		ev.time -= evptr.time
		evptr = evptr.next
	}

	// Get here, put it on tail of list
	ev.prev = el.tail
	el.tail.next = ev
	el.tail = ev
}

// Cancel a pending event registered under an owner token.
func CancelEvent(owner any, iarg int) {
	evptr := el.head

	for evptr != nil {
		if evptr.owner == owner && evptr.iarg == iarg {
			nxt := evptr.next
			if nxt != nil {
				// Give remaining time to next event
				nxt.time += evptr.time
				nxt.prev = evptr.prev
			} else {
				el.tail = evptr.prev
			}
			if evptr.prev != nil {
				evptr.prev.next = nxt
			} else {
				el.head = nxt
			}
			return
		}
		evptr = evptr.next
	}
}

// Advance retires guest cycles and fires every event that comes due.
func Advance(cycles uint32) {
	for el.head != nil {
		if el.head.time > cycles {
			el.head.time -= cycles
			return
		}
		ev := el.head
		cycles -= ev.time
		el.head = ev.next
		if el.head != nil {
			el.head.prev = nil
		} else {
			el.tail = nil
		}
		ev.cb(ev.iarg)
	}
}

// Empty reports whether any events are pending.
func Empty() bool {
	return el.head == nil
}

// Reset drops all pending events.
func Reset() {
	el.head = nil
	el.tail = nil
}
