/*
Package rknn provides person detection and pose estimation engines running
YOLOv8 and YOLOv8-pose models on the Rockchip NPU through go-rknnlite.

	det, err := rknn.NewDetector(rknn.Options{
		ModelFile: "../data/yolov8s-640-640-rk3588.rknn",
		LabelFile: "../data/coco_80_labels_list.txt",
		Core:      rknnlite.NPUCore0,
	})

Frames and crops are passed in BGR order as read by gocv, color conversion
and letterbox resizing to the model's input tensor size happen internally.
*/
package rknn
