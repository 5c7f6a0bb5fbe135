// Package toast provides transient notifications for ProjectMan pages.
//
// Server handlers request a toast through the HX-Trigger response header:
//
//	func SaveStory(w http.ResponseWriter, r *http.Request) {
//	    // ...
//	    toast.Success(w, "Story saved")
//	}
//
// which produces
//
//	HX-Trigger: {"showToast":{"message":"Story saved","type":"success"}}
//
// On the page, a Queue subscribes to the transport's htmx:afterRequest and
// htmx:responseError events. Each showToast directive becomes a
// div.toast.toast-<type> inside div#toast-container; failed requests show
// "Request failed: <status>" as an error toast. A toast stays for 3s, fades
// for 300ms and is then removed. The container is created on the first
// toast and kept for the life of the page.
package toast
